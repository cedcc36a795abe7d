package render

import (
	"encoding/json"

	"github.com/IgorBayerl/showcov/internal/model"
)

// JSONRenderer emits the report as indented JSON. The shape is defined by
// the model's struct tags: ranges as {start,end} pairs, branch gaps as
// {line, conditions:[{number,type,coverage}]}, summary rows with nested
// {statements,branches} counts. Absent sections are omitted.
type JSONRenderer struct {
}

func NewJSONRenderer() Renderer {
	return &JSONRenderer{}
}

func init() {
	RegisterRenderer(NewJSONRenderer())
}

func (jr *JSONRenderer) Name() string {
	return "json"
}

func (jr *JSONRenderer) Render(rep model.Report, _ Options) (string, error) {
	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data) + "\n", nil
}
