// Package pipeline enumerates the supported pipelines and validates
// caller-supplied parameters at the API boundary. The core treats parameters
// as opaque once a job exists; everything pipeline-specific lives here.
package pipeline

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
)

// Supported pipeline names.
const (
	GATKVariantCalling = "gatk_variant_calling"
	RNASeqDESeq2       = "rnaseq_deseq2"
)

// ErrUnknownPipeline is returned when the requested pipeline is not registered.
var ErrUnknownPipeline = errors.New("unknown pipeline")

// Info describes a pipeline for discovery endpoints.
type Info struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Example     json.RawMessage `json:"example"`
}

type spec struct {
	description string
	example     string
	validate    func(params json.RawMessage) error
}

var registry = map[string]spec{
	GATKVariantCalling: {
		description: "GATK variant calling pipeline for WGS/WES data",
		example:     `{"sample_id":"WGS_001","reference_genome":"hg38","fastq_r1":"s3://data/WGS_001_R1.fastq.gz","fastq_r2":"s3://data/WGS_001_R2.fastq.gz","caller":"HaplotypeCaller","quality_threshold":30}`,
		validate:    validateGATKParams,
	},
	RNASeqDESeq2: {
		description: "RNA-seq differential expression analysis with DESeq2",
		example:     `{"sample_id":"RNA_001","reference":"gencode_v38","fastq_files":["s3://data/RNA_001.fastq.gz"],"quantification_method":"salmon","min_quality":20}`,
		validate:    validateRNASeqParams,
	},
}

// Validate checks that the pipeline exists and that params satisfy its
// parameter model. It returns ErrUnknownPipeline for unregistered names and a
// descriptive error for invalid parameters.
func Validate(name string, params json.RawMessage) error {
	s, ok := registry[name]
	if !ok {
		return fmt.Errorf("%w: %q (available: %v)", ErrUnknownPipeline, name, Names())
	}
	if err := s.validate(params); err != nil {
		return fmt.Errorf("invalid parameters for %q: %w", name, err)
	}
	return nil
}

// Get returns discovery information for a single pipeline.
func Get(name string) (Info, bool) {
	s, ok := registry[name]
	if !ok {
		return Info{}, false
	}
	return Info{
		Name:        name,
		Description: s.description,
		Example:     json.RawMessage(s.example),
	}, true
}

// List returns discovery information for all pipelines, sorted by name for a
// stable API response.
func List() []Info {
	infos := make([]Info, 0, len(registry))
	for name := range registry {
		info, _ := Get(name)
		infos = append(infos, info)
	}
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].Name < infos[j].Name
	})
	return infos
}

// Names returns the sorted names of all registered pipelines.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
