package config

import (
	"github.com/pkg/errors"
	"golang.org/x/text/encoding/charmap"
)

// Gothic script files ship in single-byte code pages and differ between
// localized releases (Windows-1250 for the original german/polish data,
// Windows-1251 for the russian one), so the code page is selectable.
var currentCharMap *charmap.Charmap = charmap.Windows1250

func SetEncoding(name string) error {
	for _, enc := range charmap.All {
		if cm, ok := enc.(*charmap.Charmap); ok {
			if cm.String() == name {
				currentCharMap = cm
				return nil
			}
		}
	}
	return errors.Errorf("Failed to find encoding %q", name)
}

func ListEncodings() []string {
	list := make([]string, 0)
	for _, enc := range charmap.All {
		if cm, ok := enc.(*charmap.Charmap); ok {
			list = append(list, cm.String())
		}
	}
	return list
}

func GetEncoding() *charmap.Charmap {
	return currentCharMap
}
