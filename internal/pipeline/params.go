package pipeline

import (
	"encoding/json"
	"fmt"
	"strings"
)

// validStoragePrefixes are the storage backends data files may come from.
var validStoragePrefixes = []string{"s3://", "gs://", "https://", "/data/", "/mnt/"}

var validReferenceGenomes = map[string]bool{
	"hg19":   true,
	"hg38":   true,
	"GRCh37": true,
	"GRCh38": true,
}

var validTranscriptomes = map[string]bool{
	"gencode_v38": true,
	"gencode_v44": true,
	"ensembl_110": true,
}

var validCallers = map[string]bool{
	"HaplotypeCaller":  true,
	"Mutect2":          true,
	"UnifiedGenotyper": true,
}

var validQuantMethods = map[string]bool{
	"salmon":        true,
	"kallisto":      true,
	"rsem":          true,
	"featureCounts": true,
}

// gatkParams is the parameter model for the GATK variant calling pipeline.
type gatkParams struct {
	SampleID         string   `json:"sample_id"`
	ReferenceGenome  string   `json:"reference_genome"`
	FastqR1          string   `json:"fastq_r1"`
	FastqR2          string   `json:"fastq_r2"`
	BAMFile          string   `json:"bam_file"`
	Caller           string   `json:"caller"`
	QualityThreshold *int     `json:"quality_threshold"`
	DepthThreshold   *int     `json:"depth_threshold"`
	ReadFilters      []string `json:"read_filters"`
}

func validateGATKParams(raw json.RawMessage) error {
	var p gatkParams
	if err := decodeParams(raw, &p); err != nil {
		return err
	}

	if p.SampleID == "" {
		return fmt.Errorf("sample_id is required")
	}
	if p.ReferenceGenome == "" {
		return fmt.Errorf("reference_genome is required")
	}
	if !validReferenceGenomes[p.ReferenceGenome] {
		return fmt.Errorf("reference_genome %q is not supported", p.ReferenceGenome)
	}
	if p.Caller != "" && !validCallers[p.Caller] {
		return fmt.Errorf("caller %q is not supported", p.Caller)
	}
	if p.QualityThreshold != nil && (*p.QualityThreshold < 0 || *p.QualityThreshold > 60) {
		return fmt.Errorf("quality_threshold must be between 0 and 60")
	}
	if p.DepthThreshold != nil && *p.DepthThreshold < 1 {
		return fmt.Errorf("depth_threshold must be at least 1")
	}
	for _, path := range []string{p.FastqR1, p.FastqR2, p.BAMFile} {
		if err := validateStoragePath(path); err != nil {
			return err
		}
	}
	return nil
}

// rnaseqParams is the parameter model for the RNA-seq DESeq2 pipeline.
type rnaseqParams struct {
	SampleID             string   `json:"sample_id"`
	Reference            string   `json:"reference"`
	FastqFiles           []string `json:"fastq_files"`
	AdapterSequence      string   `json:"adapter_sequence"`
	MinQuality           *int     `json:"min_quality"`
	QuantificationMethod string   `json:"quantification_method"`
}

func validateRNASeqParams(raw json.RawMessage) error {
	var p rnaseqParams
	if err := decodeParams(raw, &p); err != nil {
		return err
	}

	if p.SampleID == "" {
		return fmt.Errorf("sample_id is required")
	}
	if p.Reference == "" {
		return fmt.Errorf("reference is required")
	}
	if !validTranscriptomes[p.Reference] {
		return fmt.Errorf("reference %q is not supported", p.Reference)
	}
	if p.MinQuality != nil && *p.MinQuality < 0 {
		return fmt.Errorf("min_quality must be non-negative")
	}
	if p.QuantificationMethod != "" && !validQuantMethods[p.QuantificationMethod] {
		return fmt.Errorf("quantification_method %q is not supported", p.QuantificationMethod)
	}
	for _, path := range p.FastqFiles {
		if err := validateStoragePath(path); err != nil {
			return err
		}
	}
	return nil
}

func decodeParams(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return fmt.Errorf("parameters are required")
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("malformed parameters: %v", err)
	}
	return nil
}

// validateStoragePath checks that a data file path uses a supported storage
// backend. Empty paths are allowed; presence requirements are per-field.
func validateStoragePath(path string) error {
	if path == "" {
		return nil
	}
	for _, prefix := range validStoragePrefixes {
		if strings.HasPrefix(path, prefix) {
			return nil
		}
	}
	return fmt.Errorf("file path %q must start with one of: %s", path, strings.Join(validStoragePrefixes, ", "))
}
