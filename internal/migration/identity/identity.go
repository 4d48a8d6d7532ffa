// Package identity derives stable target ids from legacy ids.
package identity

import (
	"fmt"

	"github.com/google/uuid"
)

// Namespace seeds every derived id.
var Namespace = uuid.MustParse("fa3aaa15-9f83-4f4a-8f86-fd1315248bcb")

// Entity tags.
const (
	TagOrganisation         = "organisation"
	TagLocation             = "location"
	TagHealthcareService    = "healthcare_service"
	TagEndpoint             = "endpoint"
	TagSymptomGroup         = "symptomgroup"
	TagSymptomDiscriminator = "symptomdiscriminator"
	TagDisposition          = "pathways:disposition"
)

// Generate returns the UUIDv5 of "<tag>-<id>" in Namespace.
func Generate(id int64, tag string) uuid.UUID {
	return uuid.NewSHA1(Namespace, []byte(fmt.Sprintf("%s-%d", tag, id)))
}
