// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package tools

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/jsonschema-go/jsonschema"

	"github.com/wneessen/weather-agent/internal/errs"
	"github.com/wneessen/weather-agent/internal/weather"
)

type CityArgs struct {
	City string `json:"city" jsonschema:"name of the city, optionally followed by a country code, e.g. London,UK" validate:"required"`
}

type ForecastArgs struct {
	City string `json:"city" jsonschema:"name of the city, optionally followed by a country code, e.g. London,UK" validate:"required"`
	Days *int   `json:"days,omitempty" jsonschema:"number of forecast days between 1 and 5, defaults to 5" validate:"omitempty,min=1,max=5"`
}

// DaysOrDefault returns the requested number of days or the default horizon if none was given.
func (a ForecastArgs) DaysOrDefault() int {
	if a.Days == nil {
		return weather.DefaultForecastDays
	}
	return *a.Days
}

type TemperatureArgs struct {
	Temperature *float64 `json:"temperature" jsonschema:"temperature in Kelvin, must not be negative" validate:"required"`
}

type MilesArgs struct {
	Miles *float64 `json:"miles" jsonschema:"distance in miles, must not be negative" validate:"required"`
}

// Definition describes a tool for the harness.
type Definition struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	InputSchema *jsonschema.Schema `json:"input_schema"`
}

// Definitions returns the definitions of all tools in a stable order.
func (t *Toolbox) Definitions() []Definition {
	definitions := make([]Definition, len(t.definitions))
	copy(definitions, t.definitions)
	return definitions
}

func buildDefinitions() ([]Definition, error) {
	citySchema, err := jsonschema.For[CityArgs](nil)
	if err != nil {
		return nil, err
	}
	forecastSchema, err := jsonschema.For[ForecastArgs](nil)
	if err != nil {
		return nil, err
	}
	if days, ok := forecastSchema.Properties["days"]; ok && days != nil {
		minDays, maxDays := float64(weather.MinForecastDays), float64(weather.MaxForecastDays)
		days.Type, days.Types = "integer", nil
		days.Minimum, days.Maximum = &minDays, &maxDays
	}
	temperatureSchema, err := jsonschema.For[TemperatureArgs](nil)
	if err != nil {
		return nil, err
	}
	nonNegative(temperatureSchema, "temperature")
	milesSchema, err := jsonschema.For[MilesArgs](nil)
	if err != nil {
		return nil, err
	}
	nonNegative(milesSchema, "miles")

	return []Definition{
		{
			Name:        ToolGetWeather,
			Description: "Get the current weather conditions for a city.",
			InputSchema: citySchema,
		},
		{
			Name:        ToolGetForecast,
			Description: "Get the weather forecast for a city in 3-hour steps for up to 5 days.",
			InputSchema: forecastSchema,
		},
		{
			Name: ToolAnalyzeWeatherTrends,
			Description: "Analyze the forecast of a city: temperature range, mean, warming/cooling/stable " +
				"trend and the dominant weather condition.",
			InputSchema: forecastSchema,
		},
		{
			Name:        ToolKelvinToCelsius,
			Description: "Convert a temperature from Kelvin to degree Celsius.",
			InputSchema: temperatureSchema,
		},
		{
			Name:        ToolMilesToKm,
			Description: "Convert a distance from miles to kilometers.",
			InputSchema: milesSchema,
		},
	}, nil
}

// nonNegative turns the nullable number generated for a pointer field into a plain number >= 0.
func nonNegative(schema *jsonschema.Schema, property string) {
	prop, ok := schema.Properties[property]
	if !ok || prop == nil {
		return
	}
	zero := float64(0)
	prop.Type, prop.Types = "number", nil
	prop.Minimum = &zero
}

func newValidator() *validator.Validate {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	return validate
}

// decodeArgs strictly decodes the raw JSON arguments of the tool call op into T and validates the
// result. Empty arguments are treated as an empty object.
func decodeArgs[T any](validate *validator.Validate, op string, raw json.RawMessage) (T, error) {
	var args T
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		trimmed = []byte("{}")
	}

	decoder := json.NewDecoder(bytes.NewReader(trimmed))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&args); err != nil {
		return args, decodeError(op, err)
	}
	if _, err := decoder.Token(); !errors.Is(err, io.EOF) {
		return args, errs.Validation(op, "arguments", "unexpected data after the arguments object")
	}

	if err := validate.Struct(args); err != nil {
		return args, validationError(op, err)
	}
	return args, nil
}

func decodeError(op string, err error) error {
	var typeErr *json.UnmarshalTypeError
	var syntaxErr *json.SyntaxError
	switch {
	case errors.As(err, &typeErr):
		field := typeErr.Field
		if field == "" {
			field = "arguments"
		}
		return errs.Validation(op, field, "must be of type %s, got %s", jsonType(typeErr.Type), typeErr.Value)
	case errors.As(err, &syntaxErr):
		return errs.Validation(op, "arguments", "malformed JSON at offset %d", syntaxErr.Offset)
	case strings.HasPrefix(err.Error(), "json: unknown field "):
		field := strings.Trim(strings.TrimPrefix(err.Error(), "json: unknown field "), `"`)
		return errs.Validation(op, field, "unknown argument")
	default:
		return errs.Validation(op, "arguments", "%s", err)
	}
}

func validationError(op string, err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &errs.Error{Kind: errs.KindInternal, Op: op, Msg: "failed to validate arguments", Err: err}
	}
	fe := fieldErrs[0]
	switch fe.Tag() {
	case "required":
		return errs.Validation(op, fe.Field(), "is required")
	case "min":
		return errs.Validation(op, fe.Field(), "must be at least %s, got %v", fe.Param(), fe.Value())
	case "max":
		return errs.Validation(op, fe.Field(), "must be at most %s, got %v", fe.Param(), fe.Value())
	default:
		return errs.Validation(op, fe.Field(), "failed the %q check", fe.Tag())
	}
}

func jsonType(typ reflect.Type) string {
	for typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	switch typ.Kind() {
	case reflect.String:
		return "string"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Bool:
		return "boolean"
	case reflect.Struct, reflect.Map:
		return "object"
	case reflect.Slice, reflect.Array:
		return "array"
	default:
		return fmt.Sprint(typ)
	}
}
