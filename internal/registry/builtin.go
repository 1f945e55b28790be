package registry

// builtinEndpoints returns the default dataset set, mirroring the Ministry of
// Tribal Affairs and Forest Survey of India resources on api.data.gov.in.
// Field candidates carry both the dated column names the gateway publishes
// and the generic names older vintages used.
func builtinEndpoints() []Endpoint {
	genericState := []string{"state", "state_name", "name_of_state", "state_ut"}
	genericDistrict := []string{"district", "district_name", "name_of_district"}

	return []Endpoint{
		{
			Key:           "fra_claims_2024",
			Resource:      "/resource/54940646-f445-461d-b99c-e8e6a2f3a0b4",
			Title:         "FRA Claims and Titles Distributed (2024)",
			Source:        "Ministry of Tribal Affairs",
			Year:          "2024",
			AsOn:          "30.06.2024",
			Kind:          KindClaims,
			StateParam:    "filters[state]",
			DistrictParam: "filters[district]",
			Fields: FieldMap{
				RowID:                 []string{"_id", "sl_no", "sl__no_"},
				State:                 genericState,
				District:              genericDistrict,
				IndividualReceived:    []string{"number_of_claims_received_upto_30_06_2024___individual", "individual_claims_received"},
				CommunityReceived:     []string{"number_of_claims_received_upto_30_06_2024___community", "community_claims_received"},
				TotalReceived:         []string{"number_of_claims_received_upto_30_06_2024___total", "total_claims_received"},
				IndividualDistributed: []string{"number_of_titles_distributed_upto_30_06_2024___individual", "individual_titles_distributed"},
				CommunityDistributed:  []string{"number_of_titles_distributed_upto_30_06_2024___community", "community_titles_distributed"},
				TotalDistributed:      []string{"number_of_titles_distributed_upto_30_06_2024___total", "total_titles_distributed"},
				Area:                  []string{"area_in_hectare", "area_in_hectares", "extent_of_forest_land_in_hectare"},
			},
		},
		{
			Key:           "fra_claims_2023",
			Resource:      "/resource/b8c1b916-8b18-401b-9b2e-c2ef5a97c6c1",
			Title:         "FRA Claims and Titles Distributed (as on 31.12.2023)",
			Source:        "Ministry of Tribal Affairs",
			Year:          "2023",
			AsOn:          "31.12.2023",
			Kind:          KindClaims,
			StateParam:    "filters[state]",
			DistrictParam: "filters[district]",
			Fields: FieldMap{
				RowID:                 []string{"_id", "sl_no"},
				State:                 genericState,
				District:              genericDistrict,
				IndividualReceived:    []string{"number_of_claims_received_upto_31_12_2023___individual", "individual_claims_received"},
				CommunityReceived:     []string{"number_of_claims_received_upto_31_12_2023___community", "community_claims_received"},
				TotalReceived:         []string{"number_of_claims_received_upto_31_12_2023___total", "total_claims_received"},
				IndividualDistributed: []string{"number_of_titles_distributed_upto_31_12_2023___individual", "individual_titles_distributed"},
				CommunityDistributed:  []string{"number_of_titles_distributed_upto_31_12_2023___community", "community_titles_distributed"},
				TotalDistributed:      []string{"number_of_titles_distributed_upto_31_12_2023___total", "total_titles_distributed"},
				Area:                  []string{"area_in_hectare", "area_in_hectares"},
			},
		},
		{
			Key:           "fra_claims_2022",
			Resource:      "/resource/40bec28e-0338-4440-b469-24b6b2a6fe5f",
			Title:         "FRA Claims and Titles Distributed (as on 31.12.2022)",
			Source:        "Ministry of Tribal Affairs",
			Year:          "2022",
			AsOn:          "31.12.2022",
			Kind:          KindClaims,
			StateParam:    "filters[state]",
			DistrictParam: "filters[district]",
			Fields: FieldMap{
				RowID:                 []string{"_id", "sl_no"},
				State:                 genericState,
				District:              genericDistrict,
				IndividualReceived:    []string{"number_of_claims_received_upto_31_12_2022___individual", "individual_claims_received"},
				CommunityReceived:     []string{"number_of_claims_received_upto_31_12_2022___community", "community_claims_received"},
				TotalReceived:         []string{"number_of_claims_received_upto_31_12_2022___total", "total_claims_received"},
				IndividualDistributed: []string{"number_of_titles_distributed_upto_31_12_2022___individual", "individual_titles_distributed"},
				CommunityDistributed:  []string{"number_of_titles_distributed_upto_31_12_2022___community", "community_titles_distributed"},
				TotalDistributed:      []string{"number_of_titles_distributed_upto_31_12_2022___total", "total_titles_distributed"},
				Area:                  []string{"area_in_hectare", "area_in_hectares"},
			},
		},
		{
			Key:        "fra_pattas_2017",
			Resource:   "/resource/dcf9aaac-c3df-4eb8-b3bd-c23dc580a7af",
			Title:      "Land Pattas under FRA (as on 30.11.2017)",
			Source:     "Ministry of Tribal Affairs",
			Year:       "2017",
			AsOn:       "30.11.2017",
			Kind:       KindClaims,
			StateParam: "filters[state]",
			Fields: FieldMap{
				RowID:                 []string{"_id", "sl_no"},
				State:                 genericState,
				District:              genericDistrict,
				IndividualReceived:    []string{"individual_claims_received"},
				CommunityReceived:     []string{"community_claims_received"},
				IndividualDistributed: []string{"individual_titles_distributed"},
				CommunityDistributed:  []string{"community_titles_distributed"},
				Area:                  []string{"area_in_hectare", "extent_of_forest_land_in_hectare"},
			},
		},
		{
			Key:        "fra_approval_2018",
			Resource:   "/resource/f55d3181-a8bc-477f-bb51-f14910355e31",
			Title:      "Claims Approval Percentage (as on 31.10.2018)",
			Source:     "Ministry of Tribal Affairs",
			Year:       "2018",
			AsOn:       "31.10.2018",
			Kind:       KindApproval,
			StateParam: "filters[name_of_state]",
			Fields: FieldMap{
				RowID: []string{"_id", "sl_no"},
				State: []string{"name_of_state", "state"},
				ApprovalPct: []string{
					"percentage_of_claims_approved_over_number_of_claims_received__as_on_31_10_2018_",
					"percentage_of_claims_approved",
				},
			},
		},
		{
			Key:        "fra_rejected_2018",
			Resource:   "/resource/ad14152a-6e21-4b52-9b18-4f6e8c1d9b02",
			Title:      "Claims Rejected (as on 31.10.2018)",
			Source:     "Ministry of Tribal Affairs",
			Year:       "2018",
			AsOn:       "31.10.2018",
			Kind:       KindRejected,
			StateParam: "filters[name_of_state]",
			Fields: FieldMap{
				RowID:         []string{"_id", "sl_no"},
				State:         []string{"name_of_state", "state"},
				TotalReceived: []string{"number_of_claims_rejected", "claims_rejected", "total_claims_rejected"},
			},
		},
		{
			Key:           "jk_district_rights",
			Resource:      "/resource/6a8a2d94-61fe-40ab-b543-68a0f2665b17",
			Title:         "J&K District-wise Rights Recognized (as on 12.12.2024)",
			Source:        "Ministry of Tribal Affairs",
			Year:          "2024",
			AsOn:          "12.12.2024",
			Kind:          KindClaims,
			DistrictParam: "filters[district]",
			ImplicitState: "Jammu and Kashmir",
			Fields: FieldMap{
				RowID:                 []string{"_id", "sl_no"},
				District:              genericDistrict,
				IndividualReceived:    []string{"individual_claims_received", "no_of_individual_claims_received"},
				CommunityReceived:     []string{"community_claims_received", "no_of_community_claims_received"},
				IndividualDistributed: []string{"individual_rights_recognized", "no_of_individual_rights_recognized", "individual_titles_distributed"},
				CommunityDistributed:  []string{"community_rights_recognized", "no_of_community_rights_recognized", "community_titles_distributed"},
			},
		},
		{
			Key:        "fsi_fire_alerts",
			Resource:   "/resource/f1a4466f-8386-4b86-8710-3ff3d888e3bc",
			Title:      "Forest Fire Alerts (Jan 2017 to Jun 2021)",
			Source:     "Forest Survey of India",
			Year:       "2021",
			AsOn:       "30.06.2021",
			Kind:       KindFire,
			StateParam: "filters[state_ut]",
			Fields: FieldMap{
				RowID:         []string{"_id", "sl_no"},
				State:         []string{"state_ut", "state_uts", "states_uts", "state"},
				TotalReceived: []string{"total", "grand_total", "total_fire_alerts", "no_of_fire_alerts"},
			},
		},
	}
}
