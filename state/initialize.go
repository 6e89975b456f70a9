package state

import (
	"fmt"
	"os"
	"time"

	"htmlpdf/fonts"
)

func newLocalEnv() *LocalEnv {
	return &LocalEnv{start: time.Now()}
}

// LoadResources prepares process wide resources described by configuration:
// the font registry, frozen on return, and optional user stylesheet. Must
// be called once after Cfg and Log are set.
func (e *LocalEnv) LoadResources() error {
	doc := &e.Cfg.Document

	e.Fonts = fonts.NewRegistry(e.Log)
	e.Fonts.Discover(doc.Fonts.Family, doc.Fonts.Candidates, doc.Fonts.RequireCJK)
	e.Fonts.Freeze()

	if len(doc.StylesheetPath) > 0 {
		data, err := os.ReadFile(doc.StylesheetPath)
		if err != nil {
			return fmt.Errorf("unable to read stylesheet: %w", err)
		}
		e.UserStyle = data
		e.Rpt.Store("user.css", doc.StylesheetPath)
	}
	return nil
}
