package model

// PrintJob: строка отчёта о печати файла.
// Собирается из print, printer, material и связанных брендов.
type PrintJob struct {
	ID             string
	NozzleSizeMM   *float64
	BedTempCelsius *int32
	ExtruderTemp   *int32
	Successful     bool
	// Filament: "бренд описание" материала
	Filament *string
	// FilamentType: тип материала (PLA, PETG, ...)
	FilamentType *string
	// Printer: "бренд модель" принтера
	Printer *string
	GcodeID string
}
