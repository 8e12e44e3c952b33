// Package migrations embute as migrações SQL do goose para que o binário migrate
// não dependa do diretório de trabalho.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
