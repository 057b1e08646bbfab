package repository

import (
	"context"
	"fmt"

	"github.com/HansenBerlin/printfiles/internal/domain/model"
)

// PrintRepository: отчёт о печати файлов (только чтение).
type PrintRepository interface {
	// ListByFile возвращает печати, выполненные по gcode файла.
	ListByFile(ctx context.Context, fileID string, limit, offset int) ([]*model.PrintJob, error)
}

type printRepo struct {
	db DBTX
}

// NewPrintRepository создаёт репозиторий отчёта о печати.
func NewPrintRepository(db DBTX) PrintRepository {
	return &printRepo{db: db}
}

func (r *printRepo) ListByFile(ctx context.Context, fileID string, limit, offset int) ([]*model.PrintJob, error) {
	query := `
		SELECT pr.id, pr.nozzle_size_mm, pr.bed_temp_celsius, pr.extruder_temp, pr.successful,
			NULLIF(CONCAT_WS(' ', mb.full_name, m.description), ''),
			m.mat_type,
			NULLIF(CONCAT_WS(' ', pb.full_name, p.model), ''),
			g.id
		FROM print pr
		JOIN gcode g ON g.id = pr.gcode_fk
		LEFT JOIN material m ON m.id = pr.material_fk
		LEFT JOIN material_brand mb ON mb.id = m.material_brand_fk
		LEFT JOIN printer p ON p.id = pr.printer_fk
		LEFT JOIN printer_brand pb ON pb.id = p.printer_brand_fk
		WHERE g.file_pk = $1
		ORDER BY pr.id
		LIMIT $2 OFFSET $3`

	rows, err := r.db.Query(ctx, query, fileID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения отчёта о печати: %w", err)
	}
	defer rows.Close()

	result := make([]*model.PrintJob, 0)
	for rows.Next() {
		p := &model.PrintJob{}
		if err := rows.Scan(
			&p.ID, &p.NozzleSizeMM, &p.BedTempCelsius, &p.ExtruderTemp, &p.Successful,
			&p.Filament, &p.FilamentType, &p.Printer, &p.GcodeID,
		); err != nil {
			return nil, fmt.Errorf("ошибка сканирования печати: %w", err)
		}
		result = append(result, p)
	}
	return result, rows.Err()
}
