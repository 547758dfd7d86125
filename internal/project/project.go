// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// ErrMissingFields is wrapped by Draft.Validate when required fields are
// absent.
var ErrMissingFields = errors.New("missing required fields")

// Project is a landowner planting project as returned by the backend.
type Project struct {
	ID                string   `json:"id"`
	UniqueID          string   `json:"uniqueId,omitempty"`
	Season            string   `json:"season"`
	OwnerFirstName    string   `json:"ownerFirstName,omitempty"`
	OwnerDisplayName  string   `json:"ownerDisplayName,omitempty"`
	OwnerFullName     string   `json:"ownerFullName,omitempty"`
	Landowner         string   `json:"landowner"`
	Address           string   `json:"address,omitempty"`
	City              string   `json:"city,omitempty"`
	Location          string   `json:"location,omitempty"`
	ZipCode           string   `json:"zipCode,omitempty"`
	County            string   `json:"county,omitempty"`
	PropertyID        string   `json:"propertyId,omitempty"`
	SiteNumber        string   `json:"siteNumber,omitempty"`
	LandRegion        string   `json:"landRegion,omitempty"`
	Description       string   `json:"description,omitempty"`
	Status            string   `json:"status"`
	Phone             string   `json:"phone,omitempty"`
	Email             string   `json:"email,omitempty"`
	ContactDate       string   `json:"contactDate,omitempty"`
	ApplicationDate   string   `json:"applicationDate,omitempty"`
	ConsultationDate  string   `json:"consultationDate,omitempty"`
	FlaggingDate      string   `json:"flaggingDate,omitempty"`
	PlantingDate      string   `json:"plantingDate,omitempty"`
	TotalAcres        string   `json:"totalAcres,omitempty"`
	WetlandAcres      string   `json:"wetlandAcres,omitempty"`
	UplandAcres       string   `json:"uplandAcres,omitempty"`
	TotalTrees        string   `json:"totalTrees,omitempty"`
	WetlandTrees      string   `json:"wetlandTrees,omitempty"`
	UplandTrees       string   `json:"uplandTrees,omitempty"`
	Image             string   `json:"image,omitempty"`
	InitialMapURL     string   `json:"initialMapUrl,omitempty"`
	DraftMapURLs      []string `json:"draftMapUrls,omitempty"`
	FinalMapURLs      []string `json:"finalMapUrls,omitempty"`
	ReplantingMapURLs []string `json:"replantingMapUrls,omitempty"`
	BeforePhotoURLs   []string `json:"beforePhotoUrls,omitempty"`
	PlantingPhotoURLs []string `json:"plantingPhotoUrls,omitempty"`
	PropertyImageURLs []string `json:"propertyImageUrls,omitempty"`
	CarbonDocs        []string `json:"carbonDocs,omitempty"`
	OtherAttachments  []string `json:"otherAttachments,omitempty"`
	PostPlantingDocs  []string `json:"postPlantingReports,omitempty"`
	DraftMapComments  string   `json:"draftMapComments,omitempty"`

	// Raw is the record exactly as the backend sent it.
	Raw json.RawMessage `json:"-"`
}

// Parse builds a normalized Project from a single backend record. Numeric
// fields may arrive as numbers or strings and attachment fields as a single
// URL or a list of them; both shapes are accepted. seasonHint is used when the
// record does not name its own season.
func Parse(raw []byte, seasonHint ...string) Project {
	r := gjson.ParseBytes(raw)
	str := func(keys ...string) string {
		for _, k := range keys {
			if v := r.Get(k); v.Exists() && v.Type != gjson.Null {
				if s := strings.TrimSpace(v.String()); s != "" {
					return s
				}
			}
		}
		return ""
	}

	p := Project{
		ID:                str("id"),
		UniqueID:          str("uniqueId"),
		Season:            str("season", "seasonYear"),
		OwnerFirstName:    str("ownerFirstName"),
		OwnerDisplayName:  str("ownerDisplayName", "ownerLastName"),
		OwnerFullName:     str("ownerFullName"),
		Address:           str("address"),
		City:              str("city"),
		ZipCode:           str("zipCode"),
		County:            str("county"),
		PropertyID:        str("propertyId"),
		SiteNumber:        str("siteNumber"),
		LandRegion:        str("landRegion"),
		Description:       str("description"),
		Status:            str("status"),
		Phone:             str("phone", "contact.phone"),
		Email:             str("email", "contact.email"),
		ContactDate:       str("contactDate"),
		ApplicationDate:   str("applicationDate"),
		ConsultationDate:  str("consultationDate"),
		FlaggingDate:      str("flaggingDate"),
		PlantingDate:      str("plantingDate"),
		TotalAcres:        str("totalAcres"),
		WetlandAcres:      str("wetlandAcres"),
		UplandAcres:       str("uplandAcres"),
		TotalTrees:        str("totalTrees"),
		WetlandTrees:      str("wetlandTrees"),
		UplandTrees:       str("uplandTrees"),
		Image:             str("image"),
		InitialMapURL:     first(strs(r.Get("initialMapUrl"))),
		DraftMapURLs:      strs(r.Get("draftMapUrl")),
		FinalMapURLs:      strs(r.Get("finalMapUrl")),
		ReplantingMapURLs: strs(r.Get("replantingMapUrl")),
		BeforePhotoURLs:   strs(r.Get("beforePhotoUrls")),
		PlantingPhotoURLs: strs(r.Get("plantingPhotoUrls")),
		PropertyImageURLs: strs(r.Get("propertyImageUrls")),
		CarbonDocs:        strs(r.Get("carbonDocs")),
		OtherAttachments:  strs(r.Get("otherAttachments")),
		PostPlantingDocs:  strs(r.Get("postPlantingReports")),
		DraftMapComments:  str("draftMapComments"),
		Raw:               json.RawMessage(append([]byte(nil), raw...)),
	}

	if p.Season == "" && len(seasonHint) > 0 {
		p.Season = strings.TrimSpace(seasonHint[0])
	}

	p.normalize(str("landowner"), str("location"))
	return p
}

// ParseList parses a JSON array of project records. A payload that is not an
// array yields no projects.
func ParseList(raw []byte, seasonHint ...string) []Project {
	r := gjson.ParseBytes(raw)
	if !r.IsArray() {
		return nil
	}
	items := r.Array()
	projects := make([]Project, 0, len(items))
	for _, item := range items {
		projects = append(projects, Parse([]byte(item.Raw), seasonHint...))
	}
	return projects
}

// normalize fills the derived display fields.
func (p *Project) normalize(landowner, location string) {
	if p.OwnerFullName == "" {
		p.OwnerFullName = strings.TrimSpace(strings.Join(nonEmpty(p.OwnerFirstName, p.OwnerDisplayName), " "))
	}

	p.Landowner = firstNonEmpty(landowner, p.OwnerFullName, p.OwnerDisplayName, p.OwnerFirstName, "N/A")
	p.Location = firstNonEmpty(location, p.City)

	if p.Status == "" {
		p.Status = "Unknown"
	}

	if p.Image == "" {
		p.Image = firstNonEmpty(first(p.PlantingPhotoURLs), first(p.BeforePhotoURLs), first(p.FinalMapURLs))
	}

	if p.ID == "" {
		base := firstNonEmpty(p.UniqueID, p.OwnerDisplayName, p.OwnerFullName, p.PropertyID, p.SiteNumber, "project")
		p.ID = fmt.Sprintf("%s-%s", base, firstNonEmpty(p.Season, "unknown"))
	}
}

// strs flattens a value that may be a string, an array of strings or an
// array of attachment objects carrying a url.
func strs(v gjson.Result) []string {
	if !v.Exists() || v.Type == gjson.Null {
		return nil
	}
	var out []string
	for _, item := range v.Array() {
		s := item.String()
		if item.IsObject() {
			s = item.Get("url").String()
		}
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func first(s []string) string {
	if len(s) == 0 {
		return ""
	}
	return s[0]
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func nonEmpty(values ...string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
