package adcanvas

import (
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
)

// fontKey uniquely identifies a cached face by family, size, and style.
type fontKey struct {
	family string
	size   float64
	bold   bool
	italic bool
}

// FontResolver resolves template font requests to usable font faces. It
// scans the OS font directories plus any configured extras, registers
// fonts by filename and internal family name, and caches parsed fonts
// and sized faces.
//
// Resolution never fails: the fallback chain runs requested family with
// style variant, requested family, the configured default family, and
// finally the built-in Go fonts. The resolver is owned by its caller;
// share one across renders to reuse the caches, or build per request to
// pick up font directory changes.
type FontResolver struct {
	mu            sync.RWMutex
	dirs          []string
	defaultFamily string
	fonts         map[string]*opentype.Font // lowercase name -> parsed font
	faces         map[fontKey]font.Face
	builtin       *opentype.Font
	builtinBold   *opentype.Font
	scanned       bool
}

// maxFontScanDepth limits recursive traversal when scanning font dirs.
const maxFontScanDepth = 3

// maxFontFileSize limits the size of font files loaded into memory.
const maxFontFileSize = 20 << 20 // 20 MB

// NewFontResolver creates a resolver that searches the OS font
// directories plus extraDirs. defaultFamily is tried before the
// built-in fonts when a requested family is unknown.
func NewFontResolver(defaultFamily string, extraDirs ...string) *FontResolver {
	builtin, _ := opentype.Parse(goregular.TTF)
	builtinBold, _ := opentype.Parse(gobold.TTF)
	return &FontResolver{
		dirs:          append(systemFontDirs(), extraDirs...),
		defaultFamily: defaultFamily,
		fonts:         make(map[string]*opentype.Font),
		faces:         make(map[fontKey]font.Face),
		builtin:       builtin,
		builtinBold:   builtinBold,
	}
}

// GetFont returns a sized face for the requested family, weight, and
// style, plus a description of where the font came from (for logging).
// It always returns a usable face.
func (fr *FontResolver) GetFont(family string, weight any, style string, sizePx float64) (font.Face, string) {
	fr.ensureScanned()
	if sizePx <= 0 {
		sizePx = 12
	}
	bold := isBoldWeight(weight)
	italic := isItalicStyle(style)

	key := fontKey{family: strings.ToLower(family), size: sizePx, bold: bold, italic: italic}
	fr.mu.RLock()
	if face, ok := fr.faces[key]; ok {
		fr.mu.RUnlock()
		return face, "cache"
	}
	fr.mu.RUnlock()

	// Ordered fallback chain; each step returns found or not-found so
	// the precedence stays testable in isolation.
	type lookup struct {
		desc string
		f    *opentype.Font
	}
	chain := []lookup{
		{"family " + family, fr.findFont(family, bold, italic)},
		{"default family " + fr.defaultFamily, fr.findFont(fr.defaultFamily, bold, italic)},
		{"built-in", fr.builtinFont(bold)},
	}
	for _, step := range chain {
		if step.f == nil {
			continue
		}
		face, err := opentype.NewFace(step.f, &opentype.FaceOptions{
			Size:    sizePx,
			DPI:     72,
			Hinting: font.HintingFull,
		})
		if err != nil {
			continue
		}
		fr.mu.Lock()
		fr.faces[key] = face
		fr.mu.Unlock()
		return face, step.desc
	}
	// Unreachable in practice: the built-in fonts always parse. Kept as
	// a hard floor so callers never receive nil.
	return nil, "none"
}

// MeasureWidth returns the advance width of text in whole pixels.
func (fr *FontResolver) MeasureWidth(face font.Face, text string) int {
	return font.MeasureString(face, text).Ceil()
}

// GlyphBBox returns the vertical extent of text relative to the
// baseline: top is negative (above), bottom positive (below).
func (fr *FontResolver) GlyphBBox(face font.Face, text string) (top, bottom int) {
	bounds, _ := font.BoundString(face, text)
	return bounds.Min.Y.Floor(), bounds.Max.Y.Ceil()
}

func (fr *FontResolver) builtinFont(bold bool) *opentype.Font {
	if bold && fr.builtinBold != nil {
		return fr.builtinBold
	}
	return fr.builtin
}

// findFont looks up a parsed font by family name, trying style-specific
// variants first. Filenames on disk commonly encode style as a suffix
// ("arialbd", "roboto-bold italic").
func (fr *FontResolver) findFont(family string, bold, italic bool) *opentype.Font {
	if family == "" {
		return nil
	}
	fr.mu.RLock()
	defer fr.mu.RUnlock()

	lower := strings.ToLower(family)
	if bold && italic {
		for _, suffix := range []string{" bold italic", "-bolditalic", "bi", "z"} {
			if f, ok := fr.fonts[lower+suffix]; ok {
				return f
			}
		}
	}
	if bold {
		for _, suffix := range []string{" bold", "-bold", "bd", "b"} {
			if f, ok := fr.fonts[lower+suffix]; ok {
				return f
			}
		}
	}
	if italic {
		for _, suffix := range []string{" italic", "-italic", "i"} {
			if f, ok := fr.fonts[lower+suffix]; ok {
				return f
			}
		}
	}
	if f, ok := fr.fonts[lower]; ok {
		return f
	}
	return nil
}

// LoadFontData registers a TrueType/OpenType font from raw bytes under
// the given name, in addition to its internal family name.
func (fr *FontResolver) LoadFontData(name string, data []byte) error {
	f, err := opentype.Parse(data)
	if err != nil {
		return err
	}
	fr.mu.Lock()
	fr.fonts[strings.ToLower(name)] = f
	fr.registerByFamilyName(f)
	fr.mu.Unlock()
	return nil
}

func (fr *FontResolver) ensureScanned() {
	fr.mu.RLock()
	scanned := fr.scanned
	fr.mu.RUnlock()
	if scanned {
		return
	}

	fr.mu.Lock()
	defer fr.mu.Unlock()
	if fr.scanned {
		return
	}
	fr.scanned = true
	for _, dir := range fr.dirs {
		fr.scanDir(dir, 0)
	}
}

func (fr *FontResolver) scanDir(dir string, depth int) {
	if depth > maxFontScanDepth {
		return
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, entry := range entries {
		if entry.IsDir() {
			fr.scanDir(filepath.Join(dir, entry.Name()), depth+1)
			continue
		}
		lower := strings.ToLower(entry.Name())
		isColl := strings.HasSuffix(lower, ".ttc") || strings.HasSuffix(lower, ".otc")
		isSingle := strings.HasSuffix(lower, ".ttf") || strings.HasSuffix(lower, ".otf")
		if !isColl && !isSingle {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.Size() > maxFontFileSize {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			continue
		}
		if isColl {
			fr.loadCollection(data)
		} else {
			fr.loadSingle(data, lower)
		}
	}
}

func (fr *FontResolver) loadSingle(data []byte, lowerFilename string) {
	f, err := opentype.Parse(data)
	if err != nil {
		return
	}
	base := strings.TrimSuffix(lowerFilename, filepath.Ext(lowerFilename))
	fr.fonts[base] = f
	fr.registerByFamilyName(f)
}

func (fr *FontResolver) loadCollection(data []byte) {
	coll, err := opentype.ParseCollection(data)
	if err != nil {
		return
	}
	for i := 0; i < coll.NumFonts(); i++ {
		f, err := coll.Font(i)
		if err != nil {
			continue
		}
		fr.registerByFamilyName(f)
	}
}

// registerByFamilyName registers a font under the family and full names
// from its name table, so templates can reference either.
func (fr *FontResolver) registerByFamilyName(f *opentype.Font) {
	if family, err := f.Name(nil, sfnt.NameIDFamily); err == nil && family != "" {
		fr.fonts[strings.ToLower(family)] = f
	}
	if full, err := f.Name(nil, sfnt.NameIDFull); err == nil && full != "" {
		fr.fonts[strings.ToLower(full)] = f
	}
}

// isBoldWeight interprets the template's fontWeight field, which may be
// a keyword ("bold", "bolder"), a numeric string ("700"), or a number.
func isBoldWeight(weight any) bool {
	switch w := weight.(type) {
	case nil:
		return false
	case float64:
		return w >= 600
	case int:
		return w >= 600
	case string:
		s := strings.ToLower(strings.TrimSpace(w))
		if strings.Contains(s, "bold") {
			return true
		}
		if n, err := strconv.Atoi(s); err == nil {
			return n >= 600
		}
	}
	return false
}

func isItalicStyle(style string) bool {
	s := strings.ToLower(strings.TrimSpace(style))
	return s == "italic" || s == "oblique"
}

// systemFontDirs returns OS-specific font directories.
func systemFontDirs() []string {
	switch runtime.GOOS {
	case "windows":
		windir := os.Getenv("WINDIR")
		if windir == "" {
			windir = `C:\Windows`
		}
		dirs := []string{filepath.Join(windir, "Fonts")}
		if localAppData := os.Getenv("LOCALAPPDATA"); localAppData != "" {
			dirs = append(dirs, filepath.Join(localAppData, "Microsoft", "Windows", "Fonts"))
		}
		return dirs
	case "darwin":
		home, _ := os.UserHomeDir()
		dirs := []string{"/System/Library/Fonts", "/Library/Fonts"}
		if home != "" {
			dirs = append(dirs, filepath.Join(home, "Library", "Fonts"))
		}
		return dirs
	default: // linux, freebsd, etc.
		home, _ := os.UserHomeDir()
		dirs := []string{"/usr/share/fonts", "/usr/local/share/fonts"}
		if home != "" {
			dirs = append(dirs, filepath.Join(home, ".local", "share", "fonts"), filepath.Join(home, ".fonts"))
		}
		return dirs
	}
}
