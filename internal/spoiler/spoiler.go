// Package spoiler scrapes card images out of a full-spoiler gallery
// page on the mothership.
package spoiler

import (
	"io"
	"strings"

	"golang.org/x/net/html"
)

// galleryClasses mark the divs that wrap spoiler images. The gallery
// markup has changed over the years; both variants stay recognized.
var galleryClasses = map[string]bool{
	"resizing-cig": true,
	"rtecenter":    true,
}

// Images extracts card name to image URL pairs from a spoiler page.
// Only images inside a gallery div count, and any closing div ends the
// gallery. Card names use a typographic apostrophe on the page and are
// normalized to the plain one the card database uses.
func Images(r io.Reader) (map[string]string, error) {
	images := make(map[string]string)
	z := html.NewTokenizer(r)
	inGallery := false
	for {
		switch z.Next() {
		case html.ErrorToken:
			if err := z.Err(); err != io.EOF {
				return nil, err
			}
			return images, nil
		case html.StartTagToken:
			t := z.Token()
			switch t.Data {
			case "div":
				if galleryClasses[attrValue(t, "class")] {
					inGallery = true
				}
			case "img":
				recordImage(images, t, inGallery)
			}
		case html.SelfClosingTagToken:
			t := z.Token()
			if t.Data == "img" {
				recordImage(images, t, inGallery)
			}
		case html.EndTagToken:
			t := z.Token()
			if t.Data == "div" {
				inGallery = false
			}
		}
	}
}

func recordImage(images map[string]string, t html.Token, inGallery bool) {
	if !inGallery {
		return
	}
	alt := attrValue(t, "alt")
	src := attrValue(t, "src")
	if alt == "" || src == "" {
		return
	}
	images[strings.ReplaceAll(alt, "’", "'")] = src
}

func attrValue(t html.Token, key string) string {
	for _, a := range t.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
