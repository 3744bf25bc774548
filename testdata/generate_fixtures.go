//go:build ignore

// This program generates test fixture files for chartkit.
package main

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"

	"github.com/klytics/chartkit/internal/dataset"
	"github.com/klytics/chartkit/internal/formats/xlsx"
)

var (
	months   = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun"}
	products = []string{"Classic Cars", "Motorcycles", "Planes", "Ships", "Trains", "Trucks and Buses"}
	weeks    = []string{"Week 1", "Week 2", "Week 3", "Week 4"}
)

func main() {
	if err := generateSales(); err != nil {
		fmt.Fprintf(os.Stderr, "Error generating sales.xlsx: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Test fixtures generated successfully.")
}

// generateSales writes one worksheet per month, indexed by product line.
func generateSales() error {
	rng := rand.New(rand.NewSource(2024))

	wb := &xlsx.Workbook{}
	for _, month := range months {
		rows := [][]string{append([]string{dataset.CategoryColumn}, weeks...)}
		for _, product := range products {
			row := []string{product}
			for range weeks {
				row = append(row, strconv.FormatFloat(float64(rng.Intn(90000)+10000)/100, 'f', 2, 64))
			}
			rows = append(rows, row)
		}
		wb.Sheets = append(wb.Sheets, xlsx.Sheet{Name: month, Rows: rows})
	}

	return xlsx.WriteFile(wb, filepath.Join("testdata", "sales.xlsx"))
}
