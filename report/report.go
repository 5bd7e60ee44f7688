// Package report renders the state of the explorer and the frequency table
// as text, using Go templates.
package report

import (
	"bytes"
	"embed"
	"fmt"
	"math"
	"path/filepath"
	"text/template"

	"github.com/Masterminds/sprig"
	"github.com/eventual-recluse/scalespace"
	"github.com/eventual-recluse/scalespace/explorer"
)

type (
	Renderer struct {
		Template *template.Template
	}

	Data struct {
		X, Y    float64
		Weights [explorer.NumSlots]float64
		Slots   []Slot
		Notes   []Note
	}

	Slot struct {
		Number      int
		Scale       string
		Mapping     string
		Description string
		Tones       int
		Reference   float64
	}

	Note struct {
		Number int
		Name   string
		Hz     float64
		Cents  float64 // relative to the same note in 12-TET at A4 = 440 Hz
	}
)

//go:embed templates/*
var templateFS embed.FS

var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// New returns a renderer using the default templates.
func New() (*Renderer, error) {
	tmpl, err := template.New("base").Funcs(sprig.TxtFuncMap()).ParseFS(templateFS, "templates/*.*")
	if err != nil {
		return nil, fmt.Errorf(`could not create templates: %v`, err)
	}
	return &Renderer{Template: tmpl}, nil
}

// NewFromTemplates returns a renderer using the templates in a directory.
func NewFromTemplates(templateDirectory string) (*Renderer, error) {
	globPtrn := filepath.Join(templateDirectory, "*.*")
	tmpl, err := template.New("base").Funcs(sprig.TxtFuncMap()).ParseGlob(globPtrn)
	if err != nil {
		return nil, fmt.Errorf(`could not create template based on directory "%v": %v`, templateDirectory, err)
	}
	return &Renderer{Template: tmpl}, nil
}

// Collect gathers the data for the templates from a model and the table
// that was last sent to the sink.
func Collect(m *explorer.Model, table scalespace.FrequencyTable) Data {
	c := m.ControlPoint()
	ret := Data{
		X:       c.X.Value(),
		Y:       c.Y.Value(),
		Weights: c.Weights(),
	}
	for i := 0; i < explorer.NumSlots; i++ {
		t := m.Slot(i).Tuning()
		ret.Slots = append(ret.Slots, Slot{
			Number:      i + 1,
			Scale:       m.DisplayName(explorer.StateKeys[explorer.StateFileSCL1+i]),
			Mapping:     m.DisplayName(explorer.StateKeys[explorer.StateFileKBM1+i]),
			Description: t.Scale().Description,
			Tones:       len(t.Scale().Tones),
			Reference:   t.Mapping().TuningFrequency,
		})
	}
	ret.Notes = FromTable(table).Notes
	return ret
}

// FromTable returns the data of a bare frequency table, with no slots.
func FromTable(table scalespace.FrequencyTable) Data {
	var ret Data
	for n, hz := range table {
		ret.Notes = append(ret.Notes, Note{
			Number: n,
			Name:   NoteName(n),
			Hz:     hz,
			Cents:  1200*math.Log2(hz/440) - 100*float64(n-69),
		})
	}
	return ret
}

// NoteName returns the name of a MIDI note, with middle C as C4.
func NoteName(note int) string {
	return fmt.Sprintf("%s%d", noteNames[note%12], note/12-1)
}

// Render executes the named template with data. The available default
// templates are "summary.txt", "table.txt" and "table.csv".
func (r *Renderer) Render(name string, data Data) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.Template.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf(`could not execute template "%v": %v`, name, err)
	}
	return buf.Bytes(), nil
}
