// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package presenter

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"text/template"
	"time"

	"github.com/vorlif/humanize"
	"github.com/vorlif/humanize/locale/de"
	"github.com/vorlif/spreak"
	"github.com/wneessen/go-moonphase"

	"github.com/wneessen/weather-agent/internal/config"
	"github.com/wneessen/weather-agent/internal/errs"
	"github.com/wneessen/weather-agent/internal/trend"
	"github.com/wneessen/weather-agent/internal/weather"
)

// CurrentContext wraps the current conditions with presentation-related fields.
type CurrentContext struct {
	weather.Conditions

	Location               string
	ConditionIcon          string
	ConditionIconWithSpace string
	WindDir                string
	WindDirIcon            string
	MoonPhase              string
	MoonPhaseIcon          string
}

// DayView is the presentation of one forecast day.
type DayView struct {
	Date                   string
	Temperature            float64
	Min                    float64
	Max                    float64
	Condition              string
	Description            string
	ConditionIcon          string
	ConditionIconWithSpace string
	Samples                int
}

type ForecastContext struct {
	Location    string
	GeneratedAt time.Time
	Units       weather.Units
	Days        []DayView
}

type TrendContext struct {
	Location              string
	Trend                 string
	TrendIcon             string
	First                 float64
	Last                  float64
	Delta                 float64
	Slope                 float64
	Min                   float64
	Max                   float64
	Mean                  float64
	Unit                  string
	Count                 int
	DominantLabel         string
	DominantIcon          string
	DominantIconWithSpace string
	Days                  []trend.Day
}

// Presenter renders the human readable summaries of the tool results and localizes error payloads.
// It is safe for concurrent use once created.
type Presenter struct {
	CurrentTemplate  *template.Template
	ForecastTemplate *template.Template
	TrendTemplate    *template.Template

	localizer *spreak.Localizer
	humanizer *humanize.Humanizer
}

// New parses the configured templates and renders each of them once with an empty context, so
// broken templates are reported at startup instead of on the first tool call.
func New(conf *config.Config, loc *spreak.Localizer) (*Presenter, error) {
	if conf == nil {
		return nil, errors.New("config is required")
	}
	if loc == nil {
		return nil, errors.New("localizer is required")
	}
	collection, err := humanize.New(humanize.WithLocale(de.New()))
	if err != nil {
		return nil, fmt.Errorf("failed to create humanizer: %w", err)
	}
	pres := &Presenter{
		localizer: loc,
		humanizer: collection.CreateHumanizer(loc.Language()),
	}

	templates := []struct {
		name   string
		text   string
		target **template.Template
		dryRun any
	}{
		{"current", conf.Templates.Current, &pres.CurrentTemplate, CurrentContext{}},
		{"forecast", conf.Templates.Forecast, &pres.ForecastTemplate, ForecastContext{}},
		{"trend", conf.Templates.Trend, &pres.TrendTemplate, TrendContext{}},
	}
	for _, tpl := range templates {
		parsed, err := template.New(tpl.name).Funcs(pres.templateFuncMap()).Parse(tpl.text)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s template: %w", tpl.name, err)
		}
		if err = parsed.Execute(io.Discard, tpl.dryRun); err != nil {
			return nil, fmt.Errorf("failed to render %s template: %w", tpl.name, err)
		}
		*tpl.target = parsed
	}

	return pres, nil
}

func (p *Presenter) BuildCurrent(conditions *weather.Conditions) CurrentContext {
	if conditions == nil {
		return CurrentContext{}
	}

	moonTime := conditions.Time
	if moonTime.IsZero() {
		moonTime = time.Now()
	}
	phase := moonphase.New(moonTime).PhaseName()
	icon := conditionIcon(conditions.Condition, conditions.IsDay)
	windDir := p.degToString(conditions.WindDirection)

	return CurrentContext{
		Conditions:             *conditions,
		Location:               location(conditions.City, conditions.Country),
		ConditionIcon:          icon,
		ConditionIconWithSpace: EmojiWithSpace(icon),
		WindDir:                windDir,
		WindDirIcon:            p.windDirIcon(windDir),
		MoonPhase:              phase,
		MoonPhaseIcon:          MoonPhaseIcon[phase],
	}
}

func (p *Presenter) BuildForecast(forecast *weather.Forecast) ForecastContext {
	if forecast == nil {
		return ForecastContext{}
	}

	tplCtx := ForecastContext{
		Location:    location(forecast.City, forecast.Country),
		GeneratedAt: forecast.GeneratedAt,
		Units:       forecast.Units,
	}
	for _, day := range forecast.Days() {
		rep := day.Representative
		icon := conditionIcon(rep.Condition, rep.IsDay)
		view := DayView{
			Date:                   day.Date,
			Temperature:            rep.Temperature,
			Min:                    rep.Temperature,
			Max:                    rep.Temperature,
			Condition:              p.label(rep.Condition),
			Description:            rep.Description,
			ConditionIcon:          icon,
			ConditionIconWithSpace: EmojiWithSpace(icon),
			Samples:                len(day.Samples),
		}
		for _, sample := range day.Samples {
			view.Min = min(view.Min, sample.Temperature)
			view.Max = max(view.Max, sample.Temperature)
		}
		tplCtx.Days = append(tplCtx.Days, view)
	}
	return tplCtx
}

func (p *Presenter) BuildTrend(summary trend.Summary) TrendContext {
	icon := conditionIcon(summary.Dominant, true)
	return TrendContext{
		Location:              location(summary.City, summary.Country),
		Trend:                 string(summary.Trend),
		TrendIcon:             trendIcons[summary.Trend],
		First:                 summary.First,
		Last:                  summary.Last,
		Delta:                 summary.Delta,
		Slope:                 summary.Slope,
		Min:                   summary.Min,
		Max:                   summary.Max,
		Mean:                  summary.Mean,
		Unit:                  summary.Unit,
		Count:                 summary.Count,
		DominantLabel:         p.label(summary.Dominant),
		DominantIcon:          icon,
		DominantIconWithSpace: EmojiWithSpace(icon),
		Days:                  summary.Days,
	}
}

func (p *Presenter) RenderCurrent(tplCtx CurrentContext) (string, error) {
	return render(p.CurrentTemplate, tplCtx)
}

func (p *Presenter) RenderForecast(tplCtx ForecastContext) (string, error) {
	return render(p.ForecastTemplate, tplCtx)
}

func (p *Presenter) RenderTrend(tplCtx TrendContext) (string, error) {
	return render(p.TrendTemplate, tplCtx)
}

// Current builds the context for the conditions and renders the current weather summary.
func (p *Presenter) Current(conditions *weather.Conditions) (string, error) {
	return p.RenderCurrent(p.BuildCurrent(conditions))
}

// Forecast builds the context for the forecast and renders the forecast summary.
func (p *Presenter) Forecast(forecast *weather.Forecast) (string, error) {
	return p.RenderForecast(p.BuildForecast(forecast))
}

// Trend builds the context for the trend summary and renders it.
func (p *Presenter) Trend(summary trend.Summary) (string, error) {
	return p.RenderTrend(p.BuildTrend(summary))
}

// ErrorText returns the localized message and remediation hint for the given error kind.
func (p *Presenter) ErrorText(kind errs.Kind) (message, hint string) {
	text, ok := errorTexts[kind]
	if !ok {
		text = errorTexts[errs.KindInternal]
	}
	return p.localizer.Get(text.message), p.localizer.Get(text.hint)
}

func render(tpl *template.Template, data any) (string, error) {
	if tpl == nil {
		return "", errors.New("template is not initialized")
	}
	buf := bytes.NewBuffer(nil)
	if err := tpl.Execute(buf, data); err != nil {
		return "", fmt.Errorf("failed to render %s template: %w", tpl.Name(), err)
	}
	return buf.String(), nil
}

func location(city, country string) string {
	if country == "" {
		return city
	}
	return city + ", " + country
}
