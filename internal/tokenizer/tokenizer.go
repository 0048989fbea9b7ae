package tokenizer

import (
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// BpeFiles names the files a BpeData is loaded from. Only Merges is required.
type BpeFiles struct {
	Merges string
	Cache  string
	NonBPE string
	// MaxMerges keeps only the first MaxMerges merges when positive.
	MaxMerges int
}

// LoadBpeData builds the encoding context from files.
func LoadBpeData(files BpeFiles) (*BpeData, error) {
	/*
		step 1: read the merge list, truncated to MaxMerges

		step 2: read the cache if there is one. A cache built from more merges than
			we keep would disagree with the encoder, so it is skipped in that case.

		step 3: fold the non-bpe tokens into the cache as self mappings
	*/
	if files.Merges == "" {
		return nil, errors.New("no merges file given")
	}

	merges, err := ReadMergesFile(files.Merges, files.MaxMerges)
	if err != nil {
		return nil, err
	}

	var cache Cache
	switch {
	case files.Cache == "":
	case files.MaxMerges > 0:
		klog.Warningf("ignoring cache %s since only the first %d merges are used", files.Cache, files.MaxMerges)
	default:
		if cache, err = ReadBpeCacheFile(files.Cache); err != nil {
			return nil, err
		}
	}

	data := NewBpeData(merges, cache)

	if files.NonBPE != "" {
		tokens, err := ReadTokenSetFile(files.NonBPE)
		if err != nil {
			return nil, err
		}
		data.AddNonBPE(tokens)
		klog.V(1).Infof("added %d non-bpe tokens to the cache", len(tokens))
	}

	klog.Infof("bpe data loaded, %d merges, %d cache entries", data.Merges.Len(), len(data.Cache))
	return data, nil
}
