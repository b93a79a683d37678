package theme

import (
	_ "embed"
	"fmt"
	"unicode/utf16"

	"gopkg.in/yaml.v3"
)

//go:embed images.yaml
var imagesYAML []byte

// images is the theme -> fallback image catalog, loaded once at init
var images = mustLoadImages(imagesYAML)

func loadImages(data []byte) (map[Theme][]string, error) {
	raw := map[string][]string{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse image catalog: %w", err)
	}

	catalog := make(map[Theme][]string, len(raw))
	for name, list := range raw {
		t := Theme(name)
		if !t.IsValid() {
			return nil, fmt.Errorf("image catalog: unknown theme %q", name)
		}
		catalog[t] = list
	}

	if len(catalog[GenericMusic]) == 0 {
		return nil, fmt.Errorf("image catalog: %s must have at least one image", GenericMusic)
	}

	return catalog, nil
}

func mustLoadImages(data []byte) map[Theme][]string {
	catalog, err := loadImages(data)
	if err != nil {
		panic(err)
	}
	return catalog
}

// Images returns a copy of the fallback image list for a theme
func Images(t Theme) []string {
	list := images[t]
	out := make([]string, len(list))
	copy(out, list)
	return out
}

// PickImage returns the fallback image for a theme. With a gig id the
// choice is a stable hash of the id, so a gig keeps its image across
// requests without storing the assignment. Without an id the first image
// is used. Unknown or empty themes fall back to GenericMusic.
func PickImage(t Theme, gigID string) string {
	list := images[t]
	if len(list) == 0 {
		list = images[GenericMusic]
	}

	if len(list) == 1 {
		return list[0]
	}

	if gigID == "" {
		return list[0]
	}

	return list[hashIndex(gigID, len(list))]
}

// stringHash is the Java-style 31-multiplier hash over UTF-16 code units,
// wrapping at 32 bits on every step
func stringHash(s string) int32 {
	var h int32
	for _, c := range utf16.Encode([]rune(s)) {
		h = h*31 + int32(c)
	}
	return h
}

func hashIndex(s string, n int) int {
	h := int64(stringHash(s))
	if h < 0 {
		h = -h
	}
	return int(h % int64(n))
}
