package businessflow

import (
	"context"
	"strconv"
	"time"

	"github.com/pastepoint/pastepoint/models"
	"github.com/pastepoint/pastepoint/repository"
	"github.com/xuri/excelize/v2"
)

// ReportFlow exports stored image metadata for operators.
type ReportFlow interface {
	ExportImagesExcel(ctx context.Context, createdAfter, createdBefore *time.Time) (string, []byte, error)
}

type ReportFlowImpl struct {
	imageRepo repository.PastedImageRepository
}

func NewReportFlow(imageRepo repository.PastedImageRepository) ReportFlow {
	return &ReportFlowImpl{imageRepo: imageRepo}
}

// reportPageSize bounds how many rows are fetched per repository call.
const reportPageSize = 1000

func (f *ReportFlowImpl) ExportImagesExcel(ctx context.Context, createdAfter, createdBefore *time.Time) (string, []byte, error) {
	if createdAfter != nil && createdBefore != nil && createdAfter.After(*createdBefore) {
		return "", nil, NewBusinessError("VALIDATION_ERROR", "start date cannot be after end date", ErrStartDateAfterEndDate)
	}

	filter := models.PastedImageFilter{
		CreatedAfter:  createdAfter,
		CreatedBefore: createdBefore,
	}

	xl := excelize.NewFile()
	defer func() { _ = xl.Close() }()

	sheet := "images"
	xl.SetSheetName(xl.GetSheetName(0), sheet)

	header := []string{"id", "uuid", "client_id", "original_filename", "stored_path", "size_bytes", "mime_type", "extension", "image_url", "created_at"}
	_ = xl.SetSheetRow(sheet, "A1", &header)

	row := 2
	offset := 0
	for {
		images, err := f.imageRepo.ByFilter(ctx, filter, "id ASC", reportPageSize, offset)
		if err != nil {
			return "", nil, err
		}
		if len(images) == 0 {
			break
		}

		for _, img := range images {
			clientID := ""
			if img.ClientID != nil {
				clientID = strconv.FormatUint(uint64(*img.ClientID), 10)
			}
			record := []string{
				strconv.FormatUint(uint64(img.ID), 10),
				img.UUID.String(),
				clientID,
				img.OriginalFilename,
				img.StoredPath,
				strconv.FormatInt(img.SizeBytes, 10),
				img.MimeType,
				img.Extension,
				img.ImageURL,
				img.CreatedAt.UTC().Format(time.RFC3339),
			}
			cellRef, _ := excelize.CoordinatesToCellName(1, row)
			_ = xl.SetSheetRow(sheet, cellRef, &record)
			row++
		}

		if len(images) < reportPageSize {
			break
		}
		offset += reportPageSize
	}

	buf, err := xl.WriteToBuffer()
	if err != nil {
		return "", nil, NewBusinessError("EXCEL_WRITE_ERROR", "Failed to write Excel file", err)
	}

	return "pasted_images_report.xlsx", buf.Bytes(), nil
}
