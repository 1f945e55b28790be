package ocr

import (
	"context"
	"fmt"
	"os"
)

// Result is the raw OCR output for one document
type Result struct {
	Text       string   `json:"text"`
	Confidence float64  `json:"confidence"`
	Pages      int      `json:"pages"`
	Languages  []string `json:"languages"`
}

// Engine runs OCR over a stored document file
type Engine interface {
	Name() string
	Process(ctx context.Context, path string) (Result, error)
}

// StubEngine stands in for a native OCR backend. It validates the file and
// returns a representative recognition certificate so the extraction and job
// pipeline stay exercisable on installs without an OCR runtime.
type StubEngine struct {
	Langs []string
}

func NewStubEngine() *StubEngine {
	return &StubEngine{Langs: []string{"eng", "hin", "ori", "tel"}}
}

func (e *StubEngine) Name() string { return "stub" }

func (e *StubEngine) Process(ctx context.Context, path string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return Result{}, fmt.Errorf("ocr input: %w", err)
	}
	if info.Size() == 0 {
		return Result{}, fmt.Errorf("ocr input %s is empty", path)
	}

	return Result{
		Text:       sampleCertificateText,
		Confidence: 0.89,
		Pages:      1,
		Languages:  e.Langs,
	}, nil
}

const sampleCertificateText = `Forest Rights Recognition Certificate
Individual Forest Rights (IFR)

Claimant Name: Ramesh Kumar
Village: Dhanpura
District: Betul
State: Madhya Pradesh

Survey Number: 123/1
Area: 2.5 acres
GPS Coordinates: 22.4682° N, 77.9025° E

Date of Recognition: 15-08-2023
Certificate Number: IFR/MP/2023/001234
`
