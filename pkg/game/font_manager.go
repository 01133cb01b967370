package game

import (
	"bytes"
	"fmt"
	"math"

	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"
)

// FontManager 管理字体源并按字号缓存字体
type FontManager struct {
	source    *text.GoTextFaceSource
	faceCache map[float64]*text.GoTextFace
}

// NewFontManager 使用内置 Go Regular 字体创建字体管理器
func NewFontManager() (*FontManager, error) {
	return NewFontManagerFromData(goregular.TTF)
}

// NewFontManagerFromData 从 TTF/OTF 数据创建字体管理器
func NewFontManagerFromData(fontData []byte) (*FontManager, error) {
	source, err := text.NewGoTextFaceSource(bytes.NewReader(fontData))
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	return &FontManager{
		source:    source,
		faceCache: make(map[float64]*text.GoTextFace),
	}, nil
}

// Face 返回指定字号的字体（字号按 0.5 取整后缓存）
func (fm *FontManager) Face(size float64) text.Face {
	key := math.Round(size*2) / 2
	if key <= 0 {
		key = 1
	}
	if face, ok := fm.faceCache[key]; ok {
		return face
	}
	face := &text.GoTextFace{
		Source: fm.source,
		Size:   key,
	}
	fm.faceCache[key] = face
	return face
}

// CachedSizes 已缓存的字号数量
func (fm *FontManager) CachedSizes() int {
	return len(fm.faceCache)
}
