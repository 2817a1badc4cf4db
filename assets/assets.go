package assets

import _ "embed"

// CategoriesJSON is the static allowed-category document served as a
// read-only resource. The store never validates against it.
//
//go:embed categories.json
var CategoriesJSON []byte
