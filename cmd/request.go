package cmd

import (
	"bytes"
	"encoding/json"

	"kudosimport/internal/errs"
	"kudosimport/internal/usecase/importer"
)

// importRequest mirrors the external JSON payload; attribute keys are
// camelCase on the wire.
type importRequest struct {
	Name       string                  `json:"name"`
	Slug       string                  `json:"slug"`
	Attributes importRequestAttributes `json:"attributes"`
	Links      importRequestLinks      `json:"links"`
}

type importRequestAttributes struct {
	Purposes     []string `json:"purposes"`
	StackLevels  []string `json:"stackLevels"`
	Technologies []string `json:"technologies"`
	Types        []string `json:"types"`
}

type importRequestLinks struct {
	Repository []importRequestRepository `json:"repository"`
}

type importRequestRepository struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

func decodeImportRequest(payload []byte) (importer.ImportProjectInput, error) {
	var req importRequest
	if err := json.NewDecoder(bytes.NewReader(payload)).Decode(&req); err != nil {
		return importer.ImportProjectInput{}, errs.Wrap(err, "decode import request")
	}

	repositories := make([]importer.RepositoryLink, 0, len(req.Links.Repository))
	for _, link := range req.Links.Repository {
		repositories = append(repositories, importer.RepositoryLink{
			Label: link.Label,
			URL:   link.URL,
		})
	}

	return importer.ImportProjectInput{
		Name: req.Name,
		Slug: req.Slug,
		Attributes: importer.ProjectAttributes{
			Purposes:     req.Attributes.Purposes,
			StackLevels:  req.Attributes.StackLevels,
			Technologies: req.Attributes.Technologies,
			Types:        req.Attributes.Types,
		},
		Repositories: repositories,
	}, nil
}
