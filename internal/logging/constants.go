package logging

// Field names shared by every component so that log lines can be filtered
// the same way across commands.
const (
	FieldComponent  = "component"
	FieldRunID      = "run_id"
	FieldRecordID   = "record_id"
	FieldTarget     = "calculation_target"
	FieldColumn     = "identification_column"
	FieldPattern    = "pattern"
	FieldAmount     = "amount"
	FieldCount      = "count"
	FieldDirection  = "settlement_direction"
	FieldSettlement = "settlement_amount"
	FieldSettings   = "settings"
	FieldDuration   = "duration_ms"
	FieldInputFile  = "input_file"
	FieldOutputFile = "output_file"
	FieldFormat     = "format"
	FieldError      = "error"
)
