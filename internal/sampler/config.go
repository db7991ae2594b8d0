// Package sampler implements the filtered sampling engine: it turns a compact
// configuration into a scan-filter-select pipeline over the app catalog,
// under two sampling disciplines (random and top-ranked).
package sampler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gamescope/gamescope-collector/internal/domain"
	"github.com/gamescope/gamescope-collector/internal/errors"
)

// RawConfig is the compact positional configuration:
//
//	(target_n, min_year, price_flag, sample_mode_flag, genre_string[, max_candidates])
//
// Fields may be ints, strings, or nil; the prompt front end produces exactly
// these shapes.
type RawConfig []any

// Normalize parses a raw configuration into a fully-defaulted parameter set.
// All failures carry errors.CodeConfig; no partial result is returned.
//
// The defaulting rules mirror long-observed collector behavior:
//   - target_n: nil/0/""/"0" or any non-positive integer collapse to
//     defaultTargetN; only non-numeric input fails.
//   - min_year: nil/0/"" mean unconstrained.
//   - max_candidates absent or in a null form: auto-computed from the mode;
//     explicit -1 propagates as the unbounded sentinel; any other explicit
//     non-positive value gets a distinct defensive default (see DESIGN.md).
func Normalize(raw RawConfig, defaultTargetN int) (domain.SamplingConfig, domain.FilterCriteria, error) {
	var (
		cfg      domain.SamplingConfig
		criteria domain.FilterCriteria
	)

	var rawTargetN, rawMinYear, rawPriceFlag, rawSampleFlag, rawGenre, rawMaxCandidates any
	switch len(raw) {
	case 5:
		rawTargetN, rawMinYear, rawPriceFlag, rawSampleFlag, rawGenre = raw[0], raw[1], raw[2], raw[3], raw[4]
	case 6:
		rawTargetN, rawMinYear, rawPriceFlag, rawSampleFlag, rawGenre, rawMaxCandidates = raw[0], raw[1], raw[2], raw[3], raw[4], raw[5]
	default:
		return cfg, criteria, errors.Config("config must have 5 or 6 elements")
	}

	// target_n
	if isNullForm(rawTargetN, "0") {
		cfg.TargetN = defaultTargetN
	} else {
		n, err := asInt(rawTargetN)
		if err != nil {
			return cfg, criteria, errors.Config("target_n must be an integer or 0")
		}
		if n <= 0 {
			n = defaultTargetN
		}
		cfg.TargetN = n
	}

	// min_year
	if !isNullForm(rawMinYear) {
		year, err := asInt(rawMinYear)
		if err != nil {
			return cfg, criteria, errors.Config("min_year must be an integer or 0")
		}
		criteria.MinYear = &year
	}

	// price_flag
	priceFlag, err := asInt(rawPriceFlag)
	if err != nil {
		priceFlag = -1
	}
	switch priceFlag {
	case 0:
		// unconstrained
	case 1:
		v := true
		criteria.FreeOnly = &v
	case 2:
		v := false
		criteria.FreeOnly = &v
	default:
		return cfg, criteria, errors.Config("price_flag must be 0 (no), 1 (free only), or 2 (paid only)")
	}

	// sample_mode_flag
	sampleFlag, err := asInt(rawSampleFlag)
	if err != nil {
		sampleFlag = -1
	}
	switch sampleFlag {
	case 0:
		cfg.Mode = domain.SampleRandom
	case 1:
		cfg.Mode = domain.SampleTop
	default:
		return cfg, criteria, errors.Config("sample_mode_flag must be 0 (random) or 1 (top)")
	}

	// genre_string
	genre := strings.TrimSpace(asString(rawGenre))
	if genre != "" {
		criteria.TargetMainGenre = &genre
	}

	// max_candidates
	cfg.MaxCandidates, err = normalizeMaxCandidates(rawMaxCandidates, cfg.TargetN, cfg.Mode)
	if err != nil {
		return cfg, criteria, err
	}

	return cfg, criteria, nil
}

// normalizeMaxCandidates applies the soft-cap defaulting rules.
//
// The null-form default depends on the mode: a top-ranked run needs a wide
// sample frame to rank within, a random run only needs headroom over the
// target. An explicit non-positive value that is neither a null form nor the
// -1 sentinel is nonsensical input and gets a wider defensive default
// instead; the asymmetry is preserved deliberately.
func normalizeMaxCandidates(raw any, targetN int, mode domain.SampleMode) (int, error) {
	if isNullForm(raw, "0") {
		if mode == domain.SampleTop {
			return max(targetN*5, 2000), nil
		}
		return targetN * 2, nil
	}

	parsed, err := asInt(raw)
	if err != nil {
		return 0, errors.Config("max_candidates must be an integer or 0/-1")
	}
	switch {
	case parsed == domain.UnboundedScan:
		return domain.UnboundedScan, nil
	case parsed <= 0:
		return max(targetN*10, 2000), nil
	default:
		return parsed, nil
	}
}

// isNullForm reports whether v is one of the recognized null forms:
// nil, integer 0, the empty string, or any of the extra string forms.
func isNullForm(v any, extraStrings ...string) bool {
	switch t := v.(type) {
	case nil:
		return true
	case int:
		return t == 0
	case int64:
		return t == 0
	case string:
		if t == "" {
			return true
		}
		for _, s := range extraStrings {
			if t == s {
				return true
			}
		}
	}
	return false
}

// asInt coerces raw field values to int. Strings must parse exactly.
func asInt(v any) (int, error) {
	switch t := v.(type) {
	case int:
		return t, nil
	case int64:
		return int(t), nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return 0, fmt.Errorf("not an integer: %q", t)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("not an integer: %v", v)
	}
}

// asString coerces raw field values to string; nil becomes "".
func asString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}
