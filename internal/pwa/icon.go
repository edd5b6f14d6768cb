package pwa

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg" // decode uploaded icons
	"image/png"
	"strconv"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	_ "golang.org/x/image/bmp"  // decode uploaded icons
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	_ "golang.org/x/image/webp" // decode uploaded icons
	"gorm.io/gorm"

	"github.com/GoWebAPP/GoWebAPP/internal/db/controller/setting"
)

// IconSettingName stores the uploaded source icon.
const IconSettingName = "webapp_app_icon"

const (
	// MaxIconBytes bounds an uploaded icon.
	MaxIconBytes = 2 << 20
	minIconSide  = 72
	storedSide   = 512
)

var (
	// ErrUnsupportedSize is returned for icon sizes that are not served.
	ErrUnsupportedSize = errors.New("unsupported icon size")
	// ErrInvalidIcon is returned for uploads that are not a usable image.
	ErrInvalidIcon = errors.New("invalid icon image")
)

// SupportedSize reports whether an icon of size is served.
func SupportedSize(size int) bool {
	for _, s := range IconSizes {
		if s == size {
			return true
		}
	}

	for _, s := range AppleTouchSizes {
		if s == size {
			return true
		}
	}

	return false
}

// ParseHexColor parses #rgb or #rrggbb. Invalid input yields the default indigo.
func ParseHexColor(hex string) color.RGBA {
	fallback := color.RGBA{R: 0x63, G: 0x66, B: 0xf1, A: 0xff}

	h := strings.TrimPrefix(hex, "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}

	if len(h) != 6 {
		return fallback
	}

	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return fallback
	}

	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff} //nolint:gosec
}

// Initial returns the upper-cased first letter or digit of name, or 'W'.
func Initial(name string) rune {
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			r = unicode.ToUpper(r)
			if r < utf8.RuneSelf {
				return r
			}

			break
		}
	}

	return 'W'
}

// GenerateIcon draws a square in bg with initial centered in white.
func GenerateIcon(size int, bg color.Color, initial rune) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)

	face := basicfont.Face7x13
	glyph := image.NewRGBA(image.Rect(0, 0, face.Advance, face.Height))

	d := font.Drawer{
		Dst:  glyph,
		Src:  image.NewUniform(color.White),
		Face: face,
		Dot:  fixed.P(0, face.Ascent),
	}
	d.DrawString(string(initial))

	// letter box of 60% of the icon height, glyph aspect preserved
	h := size * 3 / 5
	w := h * face.Advance / face.Height
	x := (size - w) / 2
	y := (size - h) / 2

	draw.NearestNeighbor.Scale(dst, image.Rect(x, y, x+w, y+h), glyph, glyph.Bounds(), draw.Over, nil)

	return dst
}

// ScaleIcon center-crops src to a square and scales it to size.
func ScaleIcon(src image.Image, size int) *image.RGBA {
	b := src.Bounds()
	side := min(b.Dx(), b.Dy())
	crop := image.Rect(0, 0, side, side).Add(image.Pt(b.Min.X+(b.Dx()-side)/2, b.Min.Y+(b.Dy()-side)/2))

	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, crop, draw.Src, nil)

	return dst
}

// EncodePNG encodes img as PNG.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, errors.Wrap(err, "encode png")
	}

	return buf.Bytes(), nil
}

// Icons serves icon PNGs, scaled from the uploaded source when there is one
// and generated otherwise. Rendered sizes are cached until the next upload.
type Icons struct {
	db    *gorm.DB
	mu    sync.Mutex
	cache map[string][]byte
}

// NewIcons returns an icon service storing the source icon in db.
func NewIcons(db *gorm.DB) *Icons {
	return &Icons{db: db, cache: map[string][]byte{}}
}

// PNG returns the icon of size. Generated icons use color and the initial of name.
func (s *Icons) PNG(size int, hexColor, name string) ([]byte, error) {
	if !SupportedSize(size) {
		return nil, ErrUnsupportedSize
	}

	key := fmt.Sprintf("%d|%s|%s", size, hexColor, name)

	s.mu.Lock()
	defer s.mu.Unlock()

	if b, ok := s.cache[key]; ok {
		return b, nil
	}

	var img image.Image

	src, err := s.source()
	if err != nil {
		return nil, err
	}

	if src != nil {
		img = ScaleIcon(src, size)
	} else {
		img = GenerateIcon(size, ParseHexColor(hexColor), Initial(name))
	}

	b, err := EncodePNG(img)
	if err != nil {
		return nil, err
	}

	s.cache[key] = b

	return b, nil
}

func (s *Icons) source() (image.Image, error) {
	stored, err := setting.Get(s.db, IconSettingName)
	if errors.Is(err, setting.ErrSettingNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, errors.Wrap(err, "load icon")
	}

	img, _, err := image.Decode(bytes.NewReader(stored.Value))
	if err != nil {
		log.Warn().Err(err).Msg("stored icon is unreadable, using generated icon")

		return nil, nil
	}

	return img, nil
}

// Upload validates data as a square-enough image of at least 72px, stores
// it as a 512px PNG and drops the rendered cache.
func (s *Icons) Upload(data []byte) error {
	if len(data) == 0 || len(data) > MaxIconBytes {
		return errors.Wrap(ErrInvalidIcon, "size out of range")
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return errors.Wrap(ErrInvalidIcon, err.Error())
	}

	if b := img.Bounds(); min(b.Dx(), b.Dy()) < minIconSide {
		return errors.Wrapf(ErrInvalidIcon, "image must be at least %dpx", minIconSide)
	}

	stored, err := EncodePNG(ScaleIcon(img, storedSide))
	if err != nil {
		return err
	}

	if err := setting.Set(s.db, IconSettingName, stored); err != nil {
		return errors.Wrap(err, "store icon")
	}

	s.reset()

	log.Info().Str("format", format).Msg("app icon uploaded")

	return nil
}

// Remove deletes the uploaded icon; generated icons are served again.
func (s *Icons) Remove() error {
	if err := setting.DeleteByName(s.db, IconSettingName); err != nil && !errors.Is(err, setting.ErrSettingNotFound) {
		return errors.Wrap(err, "remove icon")
	}

	s.reset()

	return nil
}

// HasUpload reports whether a source icon was uploaded.
func (s *Icons) HasUpload() bool {
	_, err := setting.Get(s.db, IconSettingName)

	return err == nil
}

func (s *Icons) reset() {
	s.mu.Lock()
	s.cache = map[string][]byte{}
	s.mu.Unlock()
}
