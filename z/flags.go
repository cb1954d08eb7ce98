/*
 * SPDX-FileCopyrightText: © 2017-2025 Istari Digital, Inc.
 * SPDX-License-Identifier: Apache-2.0
 */

package z

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// SuperFlagHelp makes it really easy to generate command line `--help` output for a SuperFlag. For
// example:
//
//	const flagDefaults = `sketch=count-min-4; reset=periodic;`
//
//	var help string = z.NewSuperFlagHelp(flagDefaults).
//		Flag("sketch", "The frequency sketch used for admission.").
//		Flag("reset", "The reset strategy of the sketch.").
//		String()
//
// All flags are sorted alphabetically for consistent `--help` output. Flags with default values are
// placed at the top, and everything else goes under.
type SuperFlagHelp struct {
	defaults *SuperFlag
	flags    map[string]string
}

func NewSuperFlagHelp(defaults string) *SuperFlagHelp {
	return &SuperFlagHelp{
		defaults: NewSuperFlag(defaults),
		flags:    make(map[string]string),
	}
}

func (h *SuperFlagHelp) Flag(name, description string) *SuperFlagHelp {
	h.flags[name] = description
	return h
}

func (h *SuperFlagHelp) String() string {
	defaultLines := make([]string, 0)
	otherLines := make([]string, 0)
	for name, help := range h.flags {
		val, found := h.defaults.m[name]
		line := fmt.Sprintf("%s=%s; %s\n", name, val, help)
		if found {
			defaultLines = append(defaultLines, line)
		} else {
			otherLines = append(otherLines, line)
		}
	}
	sort.Strings(defaultLines)
	sort.Strings(otherLines)
	return strings.Join(defaultLines, "") + strings.Join(otherLines, "")
}

func parseFlag(flag string) map[string]string {
	kvm := make(map[string]string)
	for _, kv := range strings.Split(flag, ";") {
		if strings.TrimSpace(kv) == "" {
			continue
		}
		splits := strings.SplitN(kv, "=", 2)
		k := strings.TrimSpace(splits[0])
		k = strings.ToLower(k)
		k = strings.ReplaceAll(k, "_", "-")
		if len(splits) < 2 {
			kvm[k] = ""
			continue
		}
		kvm[k] = strings.TrimSpace(splits[1])
	}
	return kvm
}

// SuperFlag is a set of `key=value` options separated by semicolons. Keys are case-insensitive
// and underscores are treated as dashes.
type SuperFlag struct {
	m map[string]string
}

func NewSuperFlag(flag string) *SuperFlag {
	return &SuperFlag{
		m: parseFlag(flag),
	}
}

func (sf *SuperFlag) String() string {
	if sf == nil {
		return ""
	}
	kvs := make([]string, 0, len(sf.m))
	for k, v := range sf.m {
		kvs = append(kvs, fmt.Sprintf("%s=%s", k, v))
	}
	sort.Strings(kvs)
	return strings.Join(kvs, "; ")
}

// MergeAndCheckDefault fills in every option of flag missing from sf. It fails if sf carries an
// option that flag does not know about.
func (sf *SuperFlag) MergeAndCheckDefault(flag string) (*SuperFlag, error) {
	if sf == nil {
		return NewSuperFlag(flag), nil
	}
	src := parseFlag(flag)
	for k := range sf.m {
		if _, ok := src[k]; !ok {
			return nil, errors.Errorf("found invalid option %q in %s. Valid options: %v",
				k, sf, flag)
		}
	}
	for k, v := range src {
		if _, ok := sf.m[k]; !ok {
			sf.m[k] = v
		}
	}
	return sf, nil
}

func (sf *SuperFlag) Has(opt string) bool {
	val := sf.GetString(opt)
	return val != ""
}

func (sf *SuperFlag) GetBool(opt string) (bool, error) {
	val := sf.GetString(opt)
	if val == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return false, errors.Wrapf(err,
			"unable to parse %s as bool for key: %s. Options: %s", val, opt, sf)
	}
	return b, nil
}

func (sf *SuperFlag) GetFloat64(opt string) (float64, error) {
	val := sf.GetString(opt)
	if val == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, errors.Wrapf(err,
			"unable to parse %s as float64 for key: %s. Options: %s", val, opt, sf)
	}
	return f, nil
}

func (sf *SuperFlag) GetInt64(opt string) (int64, error) {
	val := sf.GetString(opt)
	if val == "" {
		return 0, nil
	}
	i, err := strconv.ParseInt(val, 0, 64)
	if err != nil {
		return 0, errors.Wrapf(err,
			"unable to parse %s as int64 for key: %s. Options: %s", val, opt, sf)
	}
	return i, nil
}

// GetInt64s parses a comma separated list, e.g. `replay=5,7,7,9`.
func (sf *SuperFlag) GetInt64s(opt string) ([]int64, error) {
	val := sf.GetString(opt)
	if val == "" {
		return nil, nil
	}
	var out []int64
	for _, s := range strings.Split(val, ",") {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		i, err := strconv.ParseInt(s, 0, 64)
		if err != nil {
			return nil, errors.Wrapf(err,
				"unable to parse %s as int64 list for key: %s. Options: %s", val, opt, sf)
		}
		out = append(out, i)
	}
	return out, nil
}

func (sf *SuperFlag) GetString(opt string) string {
	if sf == nil {
		return ""
	}
	return sf.m[opt]
}
