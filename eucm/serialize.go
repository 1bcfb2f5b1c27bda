package eucm

import (
	"encoding/json"
	"io"
	"os"

	"github.com/go-viper/mapstructure/v2"
	"github.com/pkg/errors"
	"go.viam.com/utils"

	"go.viam.com/eucm/camgeom"
)

// ReadJSON decodes parameters from a JSON object with the keys fx, fy, cx, cy, alpha and beta.
// Unknown keys are an error.
func ReadJSON[R camgeom.Real](r io.Reader) (*Params[R], error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	params := &Params[R]{}
	if err := dec.Decode(params); err != nil {
		return nil, errors.Wrap(err, "error parsing JSON string")
	}
	return params, nil
}

// NewParamsFromJSONFile takes in a file path to a JSON and turns it into Params.
func NewParamsFromJSONFile[R camgeom.Real](jsonPath string) (*Params[R], error) {
	//nolint:gosec
	jsonFile, err := os.Open(jsonPath)
	if err != nil {
		return nil, errors.Wrap(err, "error opening JSON file")
	}
	defer utils.UncheckedErrorFunc(jsonFile.Close)
	return ReadJSON[R](jsonFile)
}

// WriteJSON encodes the parameters as an indented JSON object.
func (p *Params[R]) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(p), "error encoding parameters")
}

// WriteJSONFile writes the parameters to jsonPath, replacing any existing file.
func (p *Params[R]) WriteJSONFile(jsonPath string) (err error) {
	//nolint:gosec
	f, err := os.Create(jsonPath)
	if err != nil {
		return errors.Wrap(err, "error creating JSON file")
	}
	defer func() {
		if closeErr := f.Close(); err == nil {
			err = closeErr
		}
	}()
	return p.WriteJSON(f)
}

// NewParamsFromAttributes decodes parameters from a configuration attribute map, as found in
// the attributes of a camera component. Keys follow the JSON names; unknown keys are an error.
func NewParamsFromAttributes[R camgeom.Real](attributes map[string]interface{}) (*Params[R], error) {
	params := &Params[R]{}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:     "json",
		Result:      params,
		ErrorUnused: true,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(attributes); err != nil {
		return nil, errors.Wrap(err, "error decoding extended unified camera attributes")
	}
	return params, nil
}
