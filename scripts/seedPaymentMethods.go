package main

import (
	"encoding/csv"
	"log"
	"os"
	"strconv"
	"strings"

	"propfund/config"
	"propfund/database"
	"propfund/models"
)

// Seeds the payment-method catalog from PaymentMethods.csv:
// code,name,fee_type,fee_value,min_amount
func main() {
	config.LoadConfig()
	database.ConnectDb()

	file, err := os.Open("PaymentMethods.csv")
	if err != nil {
		log.Fatalf("Failed to open CSV file: %v", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		log.Fatalf("Failed to read CSV: %v", err)
	}

	if len(records) < 2 {
		log.Fatal("CSV file is empty or has only headers")
	}

	header := records[0]
	log.Printf("CSV Headers: %v", header)
	log.Printf("Total rows to import: %d", len(records)-1)

	headerIndex := make(map[string]int)
	for i, h := range header {
		headerIndex[strings.TrimSpace(h)] = i
	}

	db := database.Database.Db
	inserted := 0

	for _, row := range records[1:] {
		feeValue, err := strconv.ParseFloat(strings.TrimSpace(row[headerIndex["fee_value"]]), 64)
		if err != nil {
			log.Printf("Skipping row with bad fee_value: %v", row)
			continue
		}
		minAmount, err := strconv.ParseFloat(strings.TrimSpace(row[headerIndex["min_amount"]]), 64)
		if err != nil {
			log.Printf("Skipping row with bad min_amount: %v", row)
			continue
		}

		feeType := models.FeeType(strings.ToUpper(strings.TrimSpace(row[headerIndex["fee_type"]])))
		if feeType != models.FeeTypePercentage && feeType != models.FeeTypeFixed {
			log.Printf("Skipping row with bad fee_type: %v", row)
			continue
		}

		method := models.PaymentMethod{
			Code:      strings.TrimSpace(row[headerIndex["code"]]),
			Name:      strings.TrimSpace(row[headerIndex["name"]]),
			FeeType:   feeType,
			FeeValue:  feeValue,
			MinAmount: minAmount,
			IsActive:  true,
		}

		// Upsert on code
		var existing models.PaymentMethod
		if err := db.Where("code = ?", method.Code).First(&existing).Error; err == nil {
			existing.Name = method.Name
			existing.FeeType = method.FeeType
			existing.FeeValue = method.FeeValue
			existing.MinAmount = method.MinAmount
			db.Save(&existing)
			continue
		}

		if err := db.Create(&method).Error; err != nil {
			log.Printf("Failed to insert %s: %v", method.Code, err)
			continue
		}
		inserted++
	}

	log.Printf("Import complete. Inserted %d new payment methods.", inserted)
}
