package key

import (
	"fmt"
	"strconv"
	"strings"

	"taxakey/internal/xmldoc"
)

// defaultGroup buckets characteristics whose feature has no enclosing
// feature group.
const defaultGroup = "Others"

var validStateCodes = map[string]bool{
	"0": true, "1": true, "2": true, "3": true, "4": true, "5": true,
}

// parseScores populates the score table and the per-entity profile
// characteristics from the scoring document.
func parseScores(k *Key, doc *xmldoc.Node) {
	for _, scoring := range doc.Child("normal_score_data").ChildrenNamed("scoring_item") {
		stateID := FeatureID(scoring.Attr("item_id"))
		feature, ok := k.Features[stateID]
		if !ok {
			k.warnf("state score references unknown feature: %s", stateID)
			continue
		}
		group := feature.GroupName
		if group == "" {
			group = defaultGroup
		}

		for _, scored := range scoring.ChildrenNamed("scored_item") {
			entityID := EntityID(scored.Attr("item_id"))
			scores, ok := k.Scores[entityID]
			if !ok {
				k.warnf("state score references unknown entity: %s", entityID)
				continue
			}
			value := scored.Attr("value")
			if !validStateCodes[value] {
				k.warnf("invalid state score code %q for entity %s", value, entityID)
				continue
			}
			scores[stateID] = Score{Kind: ScoreState, Value: value}
			k.Profiles[entityID].Characteristics = append(k.Profiles[entityID].Characteristics, Characteristic{
				Text:  feature.Name,
				Group: group,
				Kind:  KindState,
				Score: value,
			})
		}
	}

	for _, scoring := range doc.Child("numeric_score_data").ChildrenNamed("scoring_item") {
		featureID := FeatureID(scoring.Attr("item_id"))
		feature, ok := k.Features[featureID]
		if !ok {
			k.warnf("numeric score references unknown feature: %s", featureID)
			continue
		}
		group := feature.GroupName
		if group == "" {
			group = defaultGroup
		}
		unit := unitSymbol(feature.UnitPrefix, feature.BaseUnit)

		for _, scored := range scoring.ChildrenNamed("scored_item") {
			entityID := EntityID(scored.Attr("item_id"))
			scores, ok := k.Scores[entityID]
			if !ok {
				k.warnf("numeric score references unknown entity: %s", entityID)
				continue
			}
			data := scored.Child("scored_data")
			min := parseFloat(data.Attr("omin"))
			max := parseFloat(data.Attr("omax"))
			scores[featureID] = Score{Kind: ScoreNumeric, Min: min, Max: max}
			k.Profiles[entityID].Characteristics = append(k.Profiles[entityID].Characteristics, Characteristic{
				Text:  strings.TrimSpace(fmt.Sprintf("%s %g–%g %s", feature.Name, min, max, unit)),
				Group: group,
				Kind:  KindNumeric,
			})
		}
	}
}

// parseFloat treats absent or malformed range attributes as 0, matching
// the format's loose numeric scoring records.
func parseFloat(value string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0
	}
	return f
}

var unitPrefixes = map[string]string{
	"kilo":  "k",
	"centi": "c",
	"milli": "m",
	"micro": "µ",
}

var baseUnits = map[string]string{
	"metre":           "m",
	"litre":           "l",
	"gram":            "g",
	"degrees celcius": "°C",
}

// unitSymbol composes a prefix symbol with a base-unit symbol. Unknown or
// "none" parts render as empty strings.
func unitSymbol(prefix, base string) string {
	p := unitPrefixes[strings.ToLower(strings.TrimSpace(prefix))]
	b := baseUnits[strings.ToLower(strings.TrimSpace(base))]
	return p + b
}
