// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package project

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		hint  []string
		check func(*testing.T, Project)
	}{
		{
			name: "full record",
			raw: `{"id":"rec1","season":"24-25","ownerFirstName":"Jane","ownerDisplayName":"Doe",
				"address":"1 Elm St","city":"Austin","siteNumber":3,"totalAcres":12.5,
				"status":"Planted","plantingPhotoUrls":["https://img/p1","https://img/p2"]}`,
			check: func(t *testing.T, p Project) {
				assert.Equal(t, "rec1", p.ID)
				assert.Equal(t, "24-25", p.Season)
				assert.Equal(t, "Jane Doe", p.OwnerFullName)
				assert.Equal(t, "Jane Doe", p.Landowner)
				assert.Equal(t, "Austin", p.Location)
				assert.Equal(t, "3", p.SiteNumber)
				assert.Equal(t, "12.5", p.TotalAcres)
				assert.Equal(t, "Planted", p.Status)
				assert.Equal(t, []string{"https://img/p1", "https://img/p2"}, p.PlantingPhotoURLs)
				assert.Equal(t, "https://img/p1", p.Image)
			},
		},
		{
			name: "single url attachment becomes a list",
			raw:  `{"id":"rec2","finalMapUrl":"https://maps/final.pdf","draftMapUrl":[{"url":"https://maps/draft.pdf"}]}`,
			check: func(t *testing.T, p Project) {
				assert.Equal(t, []string{"https://maps/final.pdf"}, p.FinalMapURLs)
				assert.Equal(t, []string{"https://maps/draft.pdf"}, p.DraftMapURLs)
				assert.Equal(t, "https://maps/final.pdf", p.Image)
			},
		},
		{
			name: "defaults",
			raw:  `{"id":"rec3","status":null}`,
			check: func(t *testing.T, p Project) {
				assert.Equal(t, "Unknown", p.Status)
				assert.Equal(t, "N/A", p.Landowner)
				assert.Empty(t, p.Image)
				assert.Nil(t, p.BeforePhotoURLs)
			},
		},
		{
			name: "season hint and synthesized id",
			raw:  `{"ownerDisplayName":"Riverside Park"}`,
			hint: []string{" 23-24 "},
			check: func(t *testing.T, p Project) {
				assert.Equal(t, "23-24", p.Season)
				assert.Equal(t, "Riverside Park-23-24", p.ID)
			},
		},
		{
			name: "contact fallback",
			raw:  `{"id":"rec4","contact":{"phone":"555-1234","email":"a@b.c"}}`,
			check: func(t *testing.T, p Project) {
				assert.Equal(t, "555-1234", p.Phone)
				assert.Equal(t, "a@b.c", p.Email)
			},
		},
		{
			name: "explicit landowner wins",
			raw:  `{"id":"rec5","landowner":"Trust Co","ownerFirstName":"Jane"}`,
			check: func(t *testing.T, p Project) {
				assert.Equal(t, "Trust Co", p.Landowner)
				assert.Equal(t, "Jane", p.OwnerFullName)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Parse([]byte(tt.raw), tt.hint...)
			assert.JSONEq(t, tt.raw, string(p.Raw))
			tt.check(t, p)
		})
	}
}

func TestParseList(t *testing.T) {
	projects := ParseList([]byte(`[{"id":"a"},{"id":"b","season":"22-23"}]`), "24-25")
	require.Len(t, projects, 2)
	assert.Equal(t, "24-25", projects[0].Season)
	assert.Equal(t, "22-23", projects[1].Season)

	assert.Nil(t, ParseList([]byte(`{"id":"a"}`)))
	assert.Empty(t, ParseList([]byte(`[]`)))
}

func TestDraft_Validate(t *testing.T) {
	valid := Draft{
		Season:        "24-25",
		OwnerLastName: "Doe",
		Address:       "123 Main St",
		PropertyID:    "PID123",
		SiteNumber:    1,
	}
	assert.NoError(t, valid.Validate())

	err := Draft{Season: "24-25", Address: " "}.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingFields))
	assert.Equal(t, "missing required fields: ownerLastName, address, propertyId, siteNumber", err.Error())
}
