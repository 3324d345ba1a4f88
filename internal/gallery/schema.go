package gallery

import _ "embed"

// Schema creates the tables read by PsqlCatalogSource
//
//go:embed schema.sql
var Schema string
