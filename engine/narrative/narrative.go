// Package narrative resolves display strings for generated content. The
// numeric core only ever sees the Namer interface.
package narrative

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"

	"github.com/nathoo/crawlcore/types"
)

// Namer resolves a monster kind to a display name.
type Namer interface {
	MonsterName(kind types.MonsterKind) string
}

// BaseLocale is the locale built-in names are registered under.
var BaseLocale = language.English

// Kinds lists every monster kind that needs a name.
var Kinds = []types.MonsterKind{
	types.MonsterSlime,
	types.MonsterGoblin,
	types.MonsterWraith,
	types.MonsterOrc,
}

var defaultNames = map[types.MonsterKind]string{
	types.MonsterSlime:  "Slime",
	types.MonsterGoblin: "Goblin",
	types.MonsterWraith: "Wraith",
	types.MonsterOrc:    "Orc",
}

// Catalog is a Namer backed by an x/text message catalog.
type Catalog struct {
	tag     language.Tag
	printer *message.Printer
}

// New builds a catalog for locale. overrides maps locale -> kind -> name and
// layers content-provided names over the built-in English ones.
func New(locale string, overrides map[string]map[string]string) (*Catalog, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("parse locale %q: %w", locale, err)
	}

	parsed := map[language.Tag]map[string]string{}
	for loc, names := range overrides {
		t, err := language.Parse(loc)
		if err != nil {
			return nil, fmt.Errorf("parse locale %q: %w", loc, err)
		}
		parsed[t] = names
	}

	// Built-in names are registered under every tag in play so a locale
	// with partial overrides still resolves the rest.
	tags := []language.Tag{BaseLocale, tag}
	for t := range parsed {
		tags = append(tags, t)
	}

	b := catalog.NewBuilder(catalog.Fallback(BaseLocale))
	for _, t := range tags {
		for kind, name := range defaultNames {
			if err := b.SetString(t, key(kind), name); err != nil {
				return nil, fmt.Errorf("register %s: %w", kind, err)
			}
		}
	}
	for t, names := range parsed {
		for kind, name := range names {
			if err := b.SetString(t, key(types.MonsterKind(kind)), name); err != nil {
				return nil, fmt.Errorf("register %s/%s: %w", t, kind, err)
			}
		}
	}

	return &Catalog{
		tag:     tag,
		printer: message.NewPrinter(tag, message.Catalog(b)),
	}, nil
}

// Default returns the built-in English catalog.
func Default() *Catalog {
	c, err := New(BaseLocale.String(), nil)
	if err != nil {
		panic(err)
	}
	return c
}

// Locale returns the catalog's language tag.
func (c *Catalog) Locale() language.Tag {
	return c.tag
}

// MonsterName returns the localized name for kind.
func (c *Catalog) MonsterName(kind types.MonsterKind) string {
	return c.printer.Sprintf(key(kind))
}

func key(kind types.MonsterKind) string {
	return "monster." + string(kind)
}
