// Package title loads a title directory: the title.toml manifest, asset
// header files and the payloads attached to them.
package title

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io/fs"
	"log/slog"

	"golang.org/x/image/bmp"

	"github.com/zurustar/mediastation/pkg/asset"
	"github.com/zurustar/mediastation/pkg/datum"
	"github.com/zurustar/mediastation/pkg/engine"
	"github.com/zurustar/mediastation/pkg/fileutil"
	"github.com/zurustar/mediastation/pkg/logger"
	"github.com/zurustar/mediastation/pkg/vm"
)

// Title is an opened title. It loads contexts on demand for the engine.
type Title struct {
	*Manifest
	fsys fileutil.FileSystem
	log  *slog.Logger
}

// Load opens the title in directory dir.
func Load(dir string) (*Title, error) {
	return LoadFS(fileutil.NewRealFS(dir))
}

// LoadFS opens the title at the root of fsys.
func LoadFS(fsys fileutil.FileSystem) (*Title, error) {
	log := logger.GetLogger().With("component", "title")
	data, err := fsys.ReadFile(ManifestName)
	if err != nil {
		if errors.Is(err, fileutil.ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
			return nil, ErrManifestNotFound
		}
		return nil, fmt.Errorf("cannot read %s: %w", ManifestName, err)
	}
	m, unknown, err := ParseManifest(data)
	if err != nil {
		return nil, err
	}
	for _, key := range unknown {
		log.Warn("Unknown manifest key", "key", key)
	}
	log.Info("Title loaded", "name", m.Title.Name, "contexts", len(m.Contexts))
	return &Title{Manifest: m, fsys: fsys, log: log}, nil
}

// LoadContext reads the parameters and assets of context id.
func (t *Title) LoadContext(id uint32) (*engine.Context, error) {
	var entry *ContextEntry
	for i := range t.Contexts {
		if t.Contexts[i].ID == id {
			entry = &t.Contexts[i]
			break
		}
	}
	if entry == nil {
		return nil, vm.NewResourceError("context %d is not part of the title", id)
	}

	var params *vm.ContextParameters
	if entry.Parameters != "" {
		data, err := t.fsys.ReadFile(entry.Parameters)
		if err != nil {
			return nil, vm.NewResourceError("context %d parameters: %v", id, err)
		}
		params, err = vm.ParseContextParameters(datum.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("context %d parameters %s: %w", id, entry.Parameters, err)
		}
	}

	assets := make([]vm.Asset, 0, len(entry.Assets))
	for _, ae := range entry.Assets {
		a, err := t.loadAsset(ae)
		if err != nil {
			return nil, fmt.Errorf("context %d: %w", id, err)
		}
		assets = append(assets, a)
	}
	t.log.Debug("Context read", "id", id, "assets", len(assets))
	return engine.NewContext(id, params, assets), nil
}

func (t *Title) loadAsset(ae AssetEntry) (vm.Asset, error) {
	data, err := t.fsys.ReadFile(ae.Header)
	if err != nil {
		return nil, vm.NewResourceError("asset header %s: %v", ae.Header, err)
	}
	a, err := asset.Load(data)
	if err != nil {
		return nil, fmt.Errorf("asset header %s: %w", ae.Header, err)
	}

	m, ok, err := t.loadMedia(ae)
	if err != nil {
		return nil, fmt.Errorf("asset %d: %w", a.ID(), err)
	}
	if ok {
		if err := asset.Attach(a, m); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// loadMedia reads the payload files of ae. ok is false when it lists none.
func (t *Title) loadMedia(ae AssetEntry) (m asset.Media, ok bool, err error) {
	if ae.Bitmap != "" {
		if m.Bitmap, err = t.readBitmap(ae.Bitmap); err != nil {
			return m, false, err
		}
		ok = true
	}
	for i, name := range ae.Frames {
		img, err := t.readBitmap(name)
		if err != nil {
			return m, false, err
		}
		f := asset.Frame{Index: i, Image: img}
		if i < len(ae.Origins) {
			f.Origin = image.Pt(ae.Origins[i][0], ae.Origins[i][1])
		}
		m.Frames = append(m.Frames, f)
		ok = true
	}
	for _, f := range ae.Footers {
		m.Footers = append(m.Footers, asset.Footer{
			Index: f.Index,
			Start: f.Start,
			End:   f.End,
			Left:  f.Left,
			Top:   f.Top,
			Z:     f.Z,
		})
	}
	if ae.PCM != "" {
		if m.PCM, err = t.readPayload(ae.PCM); err != nil {
			return m, false, err
		}
		ok = true
	}
	if ae.MIDI != "" {
		if m.MIDI, err = t.readPayload(ae.MIDI); err != nil {
			return m, false, err
		}
		ok = true
	}
	if ae.Text != "" {
		m.Text = ae.Text
		ok = true
	}
	return m, ok, nil
}

func (t *Title) readPayload(name string) ([]byte, error) {
	data, err := t.fsys.ReadFile(name)
	if err != nil {
		return nil, vm.NewResourceError("payload %s: %v", name, err)
	}
	return data, nil
}

func (t *Title) readBitmap(name string) (image.Image, error) {
	data, err := t.readPayload(name)
	if err != nil {
		return nil, err
	}
	img, err := bmp.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, vm.NewResourceError("bitmap %s: %v", name, err)
	}
	return img, nil
}
