package report

import (
	"strings"
	"text/template"
)

// oracleText is the posting skeleton for a new set's oracle-update
// issue. Patch mode drops the hand-written Rules and Oracle sections
// and keeps only the generated card checklists.
const oracleText = `{{if not .Patch}}# Rules

The following rules changes from {{.SetCode}} may be relevant for XMage:

**TODO**

# Oracle

In {{.SetCode}}, there have been the following Oracle changes which will have to be implemented. Functional errata are marked in boldface, and unimplemented cards are omitted.

## Multiple cards

**TODO**

## Single card

**TODO**

{{end}}# Cards

The following cards have been printed in {{.SetCode}} and will have to be implemented.

## Reprints

{{join .Reprints "\n"}}

## New cards

{{join .NewCards "\n"}}
`

var oracleTemplate = template.Must(template.New("oracle").
	Funcs(template.FuncMap{"join": strings.Join}).
	Parse(oracleText))

// OracleUpdate is the data behind one oracle-update document.
type OracleUpdate struct {
	SetCode  string
	Patch    bool
	Reprints []string
	NewCards []string
}

// Render produces the Markdown document.
func (o OracleUpdate) Render() (string, error) {
	var buf strings.Builder
	if err := oracleTemplate.Execute(&buf, o); err != nil {
		return "", err
	}
	return buf.String(), nil
}
