package opcode

import (
	"fmt"
	"strings"
)

// AssetType is the kind recorded in an asset header.
type AssetType uint16

const (
	AssetScreen   AssetType = 0x0001
	AssetStage    AssetType = 0x0002
	AssetPath     AssetType = 0x0004
	AssetSound    AssetType = 0x0005
	AssetTimer    AssetType = 0x0006
	AssetImage    AssetType = 0x0007
	AssetHotspot  AssetType = 0x000b
	AssetCursor   AssetType = 0x000c
	AssetSprite   AssetType = 0x000e
	AssetMovie    AssetType = 0x0016
	AssetPalette  AssetType = 0x0017
	AssetPrinter  AssetType = 0x0019
	AssetText     AssetType = 0x001a
	AssetFont     AssetType = 0x001b
	AssetCamera   AssetType = 0x001c
	AssetImageSet AssetType = 0x001d
	AssetCanvas   AssetType = 0x001e
	AssetXsnd     AssetType = 0x001f
	AssetXsndMidi AssetType = 0x0020
	AssetRecorder AssetType = 0x0021
	AssetFunction AssetType = 0x0069
)

var assetNames = map[AssetType]string{
	AssetScreen:   "Screen",
	AssetStage:    "Stage",
	AssetPath:     "Path",
	AssetSound:    "Sound",
	AssetTimer:    "Timer",
	AssetImage:    "Image",
	AssetHotspot:  "Hotspot",
	AssetCursor:   "Cursor",
	AssetSprite:   "Sprite",
	AssetMovie:    "Movie",
	AssetPalette:  "Palette",
	AssetPrinter:  "Printer",
	AssetText:     "Text",
	AssetFont:     "Font",
	AssetCamera:   "Camera",
	AssetImageSet: "ImageSet",
	AssetCanvas:   "Canvas",
	AssetXsnd:     "Xsnd",
	AssetXsndMidi: "XsndMidi",
	AssetRecorder: "Recorder",
	AssetFunction: "Function",
}

func (t AssetType) String() string {
	if name, ok := assetNames[t]; ok {
		return name
	}
	return fmt.Sprintf("AssetType(0x%x)", uint16(t))
}

// ParseAssetType maps a manifest name ("movie", "Sprite") to its type.
func ParseAssetType(name string) (AssetType, bool) {
	for t, n := range assetNames {
		if strings.EqualFold(n, name) {
			return t, true
		}
	}
	return 0, false
}

// SectionType tags one field of an asset header.
type SectionType uint16

const (
	SectionEmpty                 SectionType = 0x0000
	SectionSoundEncoding1        SectionType = 0x0001
	SectionSoundEncoding2        SectionType = 0x0002
	SectionEventHandler          SectionType = 0x0017
	SectionStageID               SectionType = 0x0019
	SectionAssetID               SectionType = 0x001a
	SectionChunkReference        SectionType = 0x001b
	SectionBoundingBox           SectionType = 0x001c
	SectionMouseActiveArea       SectionType = 0x001d
	SectionZIndex                SectionType = 0x001e
	SectionStartup               SectionType = 0x001f
	SectionTransparency          SectionType = 0x0020
	SectionHasOwnSubfile         SectionType = 0x0021
	SectionCursorResourceID      SectionType = 0x0022
	SectionFrameRate             SectionType = 0x0024
	SectionLoadType              SectionType = 0x0032
	SectionSoundInfo             SectionType = 0x0033
	SectionMovieLoadType         SectionType = 0x0037
	SectionSpriteChunkCount      SectionType = 0x03e8
	SectionPalette               SectionType = 0x05aa
	SectionDissolveFactor        SectionType = 0x05dc
	SectionGetOffstageEvents     SectionType = 0x05dd
	SectionX                     SectionType = 0x05de
	SectionY                     SectionType = 0x05df
	SectionStartPoint            SectionType = 0x060e
	SectionEndPoint              SectionType = 0x060f
	SectionPathUnk1              SectionType = 0x0610
	SectionStepRate              SectionType = 0x0611
	SectionDuration              SectionType = 0x0612
	SectionMovieAnimationChunkID SectionType = 0x06a4
	SectionMovieAudioChunkID     SectionType = 0x06a5
	SectionViewportOrigin        SectionType = 0x076f
	SectionLensOpen              SectionType = 0x0770
	SectionStageUnk1             SectionType = 0x0771
	SectionCylindricalX          SectionType = 0x0772
	SectionCylindricalY          SectionType = 0x0773
	SectionAssetReference        SectionType = 0x077b
	SectionAssetName             SectionType = 0x0bb8
)
