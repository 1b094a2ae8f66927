package static

import (
	"io/fs"
	"testing"
)

func TestAssetsEmbedded(t *testing.T) {
	for _, name := range []string{"css/site.css", "js/site.js", "js/admin.js"} {
		data, err := fs.ReadFile(FS(), name)
		if err != nil {
			t.Errorf("%s не встроен: %v", name, err)
			continue
		}
		if len(data) == 0 {
			t.Errorf("%s пустой", name)
		}
	}
}
