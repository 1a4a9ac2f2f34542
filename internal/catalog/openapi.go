package catalog

import (
	_ "embed"
	"encoding/json"
	"maps"
	"net/http"
	"strings"

	"ShopCatalog/pkg/kit"
)

const openAPIPath = "/openapi.json"

//go:embed openapi.json
var openAPIDoc []byte

var openAPI = mustParseOpenAPI(openAPIDoc)

func mustParseOpenAPI(raw []byte) map[string]any {
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		panic("catalog: embedded openapi.json: " + err.Error())
	}
	return doc
}

// serveOpenAPI points servers[0] at the mount the request came through, so
// the document follows CATALOG_BASE_PATH.
func serveOpenAPI(w http.ResponseWriter, r *http.Request) {
	base := strings.TrimSuffix(r.URL.Path, openAPIPath)
	if base == "" {
		base = "/"
	}

	doc := maps.Clone(openAPI)
	doc["servers"] = []map[string]string{{"url": base}}
	kit.WriteJSON(w, http.StatusOK, doc)
}
