// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package presenter

import (
	"fmt"
	"math"
	"strings"
	"text/template"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/vorlif/humanize"
)

const emojiColumn = 3

func (p *Presenter) templateFuncMap() template.FuncMap {
	return template.FuncMap{
		"timeFormat":    p.timeFormat,
		"localizedTime": p.localizedTime,
		"floatFormat":   p.floatFormat,
		"loc":           p.loc,
		"lc":            strings.ToLower,
		"uc":            strings.ToUpper,
	}
}

func (p *Presenter) loc(val string) string {
	val = strings.ToLower(val)
	if raw, ok := i18nVars[val]; ok {
		return p.localizer.Get(raw)
	}
	return val
}

// label localizes a provider label and keeps unknown labels as they are.
func (p *Presenter) label(val string) string {
	if raw, ok := i18nVars[strings.ToLower(val)]; ok {
		return p.localizer.Get(raw)
	}
	return val
}

func (p *Presenter) localizedTime(val time.Time) string {
	return p.humanizer.FormatTime(val, humanize.TimeFormat)
}

func (p *Presenter) timeFormat(val time.Time, fmt string) string {
	return val.Format(fmt)
}

func (p *Presenter) floatFormat(val float64, precision int) string {
	pow := math.Pow(10, float64(precision))
	return fmt.Sprintf("%.*f", precision, math.Trunc(val*pow)/pow)
}

// degToString converts a meteorological wind direction in degrees into an 8-point compass direction.
func (p *Presenter) degToString(deg float64) string {
	directions := []string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return directions[int((deg+22.5)/45)%len(directions)]
}

func (p *Presenter) windDirIcon(dir string) string {
	return windDirIcons[strings.ToUpper(dir)]
}

func conditionIcon(label string, isDay bool) string {
	icons, ok := ConditionIcons[strings.ToLower(label)]
	if !ok {
		return ""
	}
	return icons[isDay]
}

// EmojiWithSpace pads the emoji to a column of emojiColumn cells, with at least one trailing space.
// An empty emoji yields an empty string.
func EmojiWithSpace(emoji string) string {
	if emoji == "" {
		return ""
	}
	pad := emojiColumn - runewidth.StringWidth(emoji)
	if pad < 1 {
		pad = 1
	}
	return emoji + strings.Repeat(" ", pad)
}
