package reset

import (
	"time"

	"gopkg.in/yaml.v2"
)

type stageDoc struct {
	Stage  Stage  `yaml:"stage"`
	Status Status `yaml:"status"`
	Detail string `yaml:"detail,omitempty"`
	Error  string `yaml:"error,omitempty"`
}

type tagDoc struct {
	Tag    string `yaml:"tag"`
	Local  Status `yaml:"local"`
	Remote Status `yaml:"remote"`
	Error  string `yaml:"error,omitempty"`
}

type bucketDoc struct {
	Name    string `yaml:"name"`
	Store   string `yaml:"store,omitempty"`
	Pages   int    `yaml:"pages"`
	Listed  int    `yaml:"listed"`
	Deleted int    `yaml:"deleted"`
	Bytes   int64  `yaml:"bytes"`
}

type reportDoc struct {
	Time      time.Time  `yaml:"time"`
	DryRun    bool       `yaml:"dryRun"`
	Workspace string     `yaml:"workspace"`
	Baseline  string     `yaml:"baseline,omitempty"`
	Subject   string     `yaml:"subject,omitempty"`
	Published bool       `yaml:"published"`
	Stages    []stageDoc `yaml:"stages"`
	Tags      []tagDoc   `yaml:"tags,omitempty"`
	Bucket    bucketDoc  `yaml:"bucket"`
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// MarshalReport renders the summary as a YAML document, stamped with the given time
func (s *Summary) MarshalReport(at time.Time) ([]byte, error) {
	doc := reportDoc{
		Time:      at.UTC(),
		DryRun:    s.DryRun,
		Workspace: s.Workspace,
		Baseline:  s.Baseline.Hash,
		Subject:   s.Baseline.Subject,
		Published: s.Published,
		Bucket: bucketDoc{
			Name:    s.Bucket.Name,
			Store:   s.Bucket.Store,
			Pages:   s.Bucket.Pages,
			Listed:  s.Bucket.Listed,
			Deleted: s.Bucket.Deleted,
			Bytes:   s.Bucket.Bytes,
		},
	}
	for _, res := range s.Stages {
		doc.Stages = append(doc.Stages, stageDoc{Stage: res.Stage, Status: res.Status, Detail: res.Detail, Error: errString(res.Err)})
	}
	for _, tag := range s.Tags {
		doc.Tags = append(doc.Tags, tagDoc{Tag: tag.Tag, Local: tag.Local, Remote: tag.Remote, Error: errString(tag.Err)})
	}
	return yaml.Marshal(doc)
}
