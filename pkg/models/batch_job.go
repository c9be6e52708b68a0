package models

import "encoding/json"

// TransferServiceURL is the default HTTP output target of the grid.
const TransferServiceURL = "https://transfer.deepsquare.run/"

// StorageType tells the ledger where a job publishes its outputs.
type StorageType uint8

const (
	StorageTypeTransfer StorageType = 0
	StorageTypeHTTP     StorageType = 1
	StorageTypeS3       StorageType = 2
	StorageTypeNone     StorageType = 4
)

// JobResources is the resource shape requested by a batch job.
type JobResources struct {
	Tasks       uint64 `json:"tasks"`
	CPUsPerTask uint64 `json:"cpusPerTask"`
	MemPerCPU   uint64 `json:"memPerCpu"`
	GPUs        uint64 `json:"gpus"`
}

type EnvVar struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type HTTPOutput struct {
	URL string `json:"url"`
}

type S3Output struct {
	Region          string `json:"region"`
	BucketURL       string `json:"bucketUrl"`
	Path            string `json:"path"`
	AccessKeyID     string `json:"accessKeyId"`
	SecretAccessKey string `json:"secretAccessKey"`
	EndpointURL     string `json:"endpointUrl"`
}

type JobOutput struct {
	HTTP *HTTPOutput `json:"http,omitempty"`
	S3   *S3Output   `json:"s3,omitempty"`
}

// BatchJob is the document uploaded to the batch-submission service. Steps and input are
// forwarded as-is; the client only interprets the resources and the output section.
type BatchJob struct {
	Resources            JobResources      `json:"resources"`
	Env                  []EnvVar          `json:"env,omitempty"`
	EnableLogging        *bool             `json:"enableLogging,omitempty"`
	Input                json.RawMessage   `json:"input,omitempty"`
	Output               *JobOutput        `json:"output,omitempty"`
	ContinuousOutputSync *bool             `json:"continuousOutputSync,omitempty"`
	Steps                []json.RawMessage `json:"steps"`
}

// StorageType derives the ledger storage type from the output section.
func (j *BatchJob) StorageType() StorageType {
	switch {
	case j.Output == nil:
		return StorageTypeNone
	case j.Output.S3 != nil:
		return StorageTypeS3
	case j.Output.HTTP != nil && j.Output.HTTP.URL == TransferServiceURL:
		return StorageTypeTransfer
	case j.Output.HTTP != nil:
		return StorageTypeHTTP
	default:
		return StorageTypeNone
	}
}
