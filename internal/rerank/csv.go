package rerank

import (
	"encoding/csv"
	"os"
	"strconv"

	"github.com/pkg/errors"
)

const (
	openMatrixFileMessageConstant   = "open matrix file"
	readMatrixFileMessageConstant   = "read matrix file"
	parseMatrixCellTemplateConstant = "parse value at row %d column %d"
	emptyMatrixFileMessageConstant  = "matrix file holds no rows"
	createOutputFileMessageConstant = "create selection file"
	writeOutputRowTemplateConstant  = "write selection row %d"
	flushOutputFileMessageConstant  = "flush selection file"
)

// LoadMatrixCSV reads a numeric matrix from a headerless CSV file.
func LoadMatrixCSV(filePath string) ([][]float64, error) {
	matrixFile, openError := os.Open(filePath)
	if openError != nil {
		return nil, errors.Wrap(openError, openMatrixFileMessageConstant)
	}
	defer matrixFile.Close()

	csvReader := csv.NewReader(matrixFile)
	records, readError := csvReader.ReadAll()
	if readError != nil {
		return nil, errors.Wrap(readError, readMatrixFileMessageConstant)
	}
	if len(records) == 0 {
		return nil, errors.New(emptyMatrixFileMessageConstant)
	}

	matrix := make([][]float64, len(records))
	for rowIndex, record := range records {
		matrixRow := make([]float64, len(record))
		for columnIndex, cellValue := range record {
			parsedValue, parseError := strconv.ParseFloat(cellValue, 64)
			if parseError != nil {
				return nil, errors.Wrapf(parseError, parseMatrixCellTemplateConstant, rowIndex, columnIndex)
			}
			matrixRow[columnIndex] = parsedValue
		}
		matrix[rowIndex] = matrixRow
	}

	return matrix, nil
}

// WriteSelectionsCSV writes one row of selected item indices per user.
func WriteSelectionsCSV(filePath string, selections [][]int) error {
	outputFile, createError := os.Create(filePath)
	if createError != nil {
		return errors.Wrap(createError, createOutputFileMessageConstant)
	}
	defer outputFile.Close()

	csvWriter := csv.NewWriter(outputFile)
	for rowIndex, selection := range selections {
		record := make([]string, len(selection))
		for columnIndex, itemIndex := range selection {
			record[columnIndex] = strconv.Itoa(itemIndex)
		}
		if writeError := csvWriter.Write(record); writeError != nil {
			return errors.Wrapf(writeError, writeOutputRowTemplateConstant, rowIndex)
		}
	}

	csvWriter.Flush()
	return errors.Wrap(csvWriter.Error(), flushOutputFileMessageConstant)
}
