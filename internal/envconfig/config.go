package envconfig

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"

	"k8s.io/klog/v2"
)

var (
	// Set via SUBTOK_MERGES in the environment
	Merges string
	// Set via SUBTOK_CACHE in the environment
	Cache string
	// Set via SUBTOK_NONBPE in the environment
	NonBPE string
	// Set via SUBTOK_MAX_MERGES in the environment
	MaxMerges int
	// Set via SUBTOK_NUM_PARALLEL in the environment
	NumParallel int
	// Set via SUBTOK_DEBUG in the environment
	Debug bool
)

type EnvVar struct {
	Name        string
	Value       any
	Description string
}

func AsMap() map[string]EnvVar {
	return map[string]EnvVar{
		"SUBTOK_CACHE":        {"SUBTOK_CACHE", Cache, "Default bpe cache file"},
		"SUBTOK_DEBUG":        {"SUBTOK_DEBUG", Debug, "Show additional debug information (e.g. SUBTOK_DEBUG=1)"},
		"SUBTOK_MAX_MERGES":   {"SUBTOK_MAX_MERGES", MaxMerges, "Only use the first N merges when encoding (default all)"},
		"SUBTOK_MERGES":       {"SUBTOK_MERGES", Merges, "Default merges file"},
		"SUBTOK_NONBPE":       {"SUBTOK_NONBPE", NonBPE, "Default file of tokens that are never split"},
		"SUBTOK_NUM_PARALLEL": {"SUBTOK_NUM_PARALLEL", NumParallel, "Maximum number of words encoded in parallel (default number of CPUs)"},
	}
}

func Values() map[string]string {
	vals := make(map[string]string)
	for k, v := range AsMap() {
		vals[k] = fmt.Sprintf("%v", v.Value)
	}
	return vals
}

// Clean quotes and spaces from the value
func clean(key string) string {
	return strings.Trim(os.Getenv(key), "\"' ")
}

func init() {
	// default values
	NumParallel = runtime.NumCPU()

	LoadConfig()
}

func LoadConfig() {
	if debug := clean("SUBTOK_DEBUG"); debug != "" {
		d, err := strconv.ParseBool(debug)
		if err == nil {
			Debug = d
		} else {
			Debug = true
		}
	}

	Merges = clean("SUBTOK_MERGES")
	Cache = clean("SUBTOK_CACHE")
	NonBPE = clean("SUBTOK_NONBPE")

	if mm := clean("SUBTOK_MAX_MERGES"); mm != "" {
		val, err := strconv.Atoi(mm)
		if err != nil || val < 0 {
			klog.Errorf("invalid setting SUBTOK_MAX_MERGES=%q must not be negative, ignoring: %v", mm, err)
		} else {
			MaxMerges = val
		}
	}

	if np := clean("SUBTOK_NUM_PARALLEL"); np != "" {
		val, err := strconv.Atoi(np)
		if err != nil || val <= 0 {
			klog.Errorf("invalid setting SUBTOK_NUM_PARALLEL=%q must be greater than zero, ignoring: %v", np, err)
		} else {
			NumParallel = val
		}
	}
}
