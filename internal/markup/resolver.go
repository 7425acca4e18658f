package markup

import (
	"sort"
	"strconv"
	"unicode"

	"golang.org/x/net/html"
)

// Resolution is the outcome of identifier resolution for one document:
// the class and identifier sets it contributes to the global aggregate,
// plus the pending identifier mutations.
type Resolution struct {
	Classes map[string]struct{}
	IDs     map[string]struct{}
	Updates []Update
}

// Resolve partitions the extracted elements into managed and unmanaged and
// derives final identifiers for the managed ones.
//
// An element is managed when its resolved class set contains the trigger
// class. Its base identifier is derived from the class set minus the
// trigger class: empty set collapses to "G", otherwise the abbreviation of
// up to five representative classes. Groups sharing a base identifier are
// processed in lexicographic base order; a singleton keeps the bare base,
// larger groups get 1-based suffixes in document encounter order. An
// Update is emitted only where the final identifier differs from the
// element's current one, which also makes a second run over unchanged
// input produce zero updates.
//
// Unmanaged elements keep their existing identifier untouched; it joins
// the identifier set as-is.
//
// resolved carries class lists produced by the grouped-class expander and
// takes precedence over the element's literal tokens. It may be nil.
func Resolve(elements []Element, resolved map[*html.Node][]string, trigger string) *Resolution {
	res := &Resolution{
		Classes: make(map[string]struct{}),
		IDs:     make(map[string]struct{}),
	}

	groups := make(map[string][]Element)

	for _, el := range elements {
		classes := el.Classes
		if r, ok := resolved[el.Node]; ok {
			classes = r
		}

		for _, c := range classes {
			res.Classes[c] = struct{}{}
		}

		if !containsString(classes, trigger) {
			if el.CurrentID != "" {
				res.IDs[el.CurrentID] = struct{}{}
			}
			continue
		}

		nonTrigger := make([]string, 0, len(classes))
		for _, c := range classes {
			if c != trigger {
				nonTrigger = append(nonTrigger, c)
			}
		}

		base := "G"
		if len(nonTrigger) > 0 {
			base = Abbreviate(nonTrigger)
		}
		groups[base] = append(groups[base], el)
	}

	bases := make([]string, 0, len(groups))
	for base := range groups {
		bases = append(bases, base)
	}
	sort.Strings(bases)

	for _, base := range bases {
		members := groups[base]
		for i, el := range members {
			finalID := base
			if len(members) > 1 {
				finalID = base + strconv.Itoa(i+1)
			}
			if el.CurrentID != finalID {
				res.Updates = append(res.Updates, Update{Node: el.Node, NewID: finalID})
			}
			res.IDs[finalID] = struct{}{}
		}
	}

	return res
}

// Abbreviate derives the uppercase tag for a class list: sample at most
// five representatives (first, second, middle, second-to-last, last when
// the list is longer than five, otherwise all), take each first letter,
// uppercase, sort, dedupe.
func Abbreviate(classes []string) string {
	if len(classes) == 0 {
		return ""
	}

	sample := classes
	if len(classes) > 5 {
		sample = []string{
			classes[0],
			classes[1],
			classes[len(classes)/2],
			classes[len(classes)-2],
			classes[len(classes)-1],
		}
	}

	chars := make([]rune, 0, len(sample))
	for _, c := range sample {
		for _, r := range c {
			chars = append(chars, unicode.ToUpper(r))
			break
		}
	}
	sort.Slice(chars, func(i, j int) bool { return chars[i] < chars[j] })

	out := make([]rune, 0, len(chars))
	for i, r := range chars {
		if i == 0 || r != out[len(out)-1] {
			out = append(out, r)
		}
	}
	return string(out)
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
