package datastore

// SampleClaims returns demo parcel claims used by the sample endpoint and by
// fresh installs before any real data is entered.
func SampleClaims() []StoredClaim {
	return []StoredClaim{
		{
			ClaimID:    "IFR-001",
			Village:    "Kanha Village",
			State:      "Madhya Pradesh",
			HolderName: "Ravi Kumar",
			ClaimType:  "individual",
			Status:     "approved",
			Geometry:   `{"type":"Polygon","coordinates":[[[80.1,23.1],[80.15,23.1],[80.15,23.15],[80.1,23.15],[80.1,23.1]]]}`,
			Lat:        23.125,
			Lng:        80.125,
			AreaHa:     2.3,
		},
		{
			ClaimID:    "IFR-002",
			Village:    "Bandhavgarh Village",
			State:      "Madhya Pradesh",
			HolderName: "Priya Devi",
			ClaimType:  "individual",
			Status:     "pending",
			Geometry:   `{"type":"Polygon","coordinates":[[[80.2,23.2],[80.25,23.2],[80.25,23.25],[80.2,23.25],[80.2,23.2]]]}`,
			Lat:        23.225,
			Lng:        80.225,
			AreaHa:     1.8,
		},
		{
			ClaimID:    "CFR-001",
			Village:    "Pench Community",
			State:      "Madhya Pradesh",
			HolderName: "Tribal Community Group",
			ClaimType:  "community",
			Status:     "approved",
			Geometry:   `{"type":"Polygon","coordinates":[[[79.9,22.9],[80.0,22.9],[80.0,23.0],[79.9,23.0],[79.9,22.9]]]}`,
			Lat:        22.95,
			Lng:        79.95,
			AreaHa:     15.7,
		},
		{
			ClaimID:    "IFR-003",
			Village:    "Satpura Village",
			State:      "Madhya Pradesh",
			HolderName: "Amit Sharma",
			ClaimType:  "individual",
			Status:     "rejected",
			Geometry:   `{"type":"Polygon","coordinates":[[[78.8,22.5],[78.85,22.5],[78.85,22.55],[78.8,22.55],[78.8,22.5]]]}`,
			Lat:        22.525,
			Lng:        78.825,
			AreaHa:     0.9,
		},
	}
}
