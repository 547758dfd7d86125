// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package project

import (
	"fmt"
	"strings"
)

// Draft is the payload used to create a project.
type Draft struct {
	Season              string `json:"season"`
	OwnerFirstName      string `json:"ownerFirstName,omitempty"`
	OwnerLastName       string `json:"ownerLastName"`
	Address             string `json:"address"`
	City                string `json:"city,omitempty"`
	ZipCode             string `json:"zipCode,omitempty"`
	County              string `json:"county,omitempty"`
	PropertyID          string `json:"propertyId"`
	SiteNumber          int    `json:"siteNumber"`
	Phone               string `json:"phone,omitempty"`
	Email               string `json:"email,omitempty"`
	Status              string `json:"status,omitempty"`
	LandRegion          string `json:"landRegion,omitempty"`
	ParticipationStatus string `json:"participationStatus,omitempty"`
	ContactDate         string `json:"contactDate,omitempty"`
	ConsultationDate    string `json:"consultationDate,omitempty"`
	ApplicationDate     string `json:"applicationDate,omitempty"`
	FlaggingDate        string `json:"flaggingDate,omitempty"`
	PlantingDate        string `json:"plantingDate,omitempty"`
}

// Validate reports every missing required field at once.
func (d Draft) Validate() error {
	var missing []string
	check := func(name, value string) {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, name)
		}
	}

	check("season", d.Season)
	check("ownerLastName", d.OwnerLastName)
	check("address", d.Address)
	check("propertyId", d.PropertyID)
	if d.SiteNumber == 0 {
		missing = append(missing, "siteNumber")
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingFields, strings.Join(missing, ", "))
	}
	return nil
}
