package logging

import "github.com/rs/zerolog"

// Reference is a catalogued log entry: a stable code, its level and a
// message template with {placeholders}.
type Reference struct {
	Code    string
	Level   zerolog.Level
	Message string
}

func ref(code string, level zerolog.Level, message string) Reference {
	return Reference{Code: code, Level: level, Message: message}
}

// Service migration pipeline.
var (
	DMETL000 = ref("DM_ETL_000", zerolog.InfoLevel, "Starting Data Migration ETL Pipeline")
	DMETL001 = ref("DM_ETL_001", zerolog.DebugLevel, "Starting to process record")
	DMETL002 = ref("DM_ETL_002", zerolog.DebugLevel, "Transformer {transformer_name} is not valid for record: {reason}")
	DMETL003 = ref("DM_ETL_003", zerolog.InfoLevel, "Transformer {transformer_name} selected for record")
	DMETL004 = ref("DM_ETL_004", zerolog.InfoLevel, "Record was not migrated due to reason: {reason}")
	DMETL005 = ref("DM_ETL_005", zerolog.InfoLevel, "Record skipped due to condition: {reason}")
	DMETL006 = ref("DM_ETL_006", zerolog.DebugLevel, "Record successfully transformed into future data model")
	DMETL007 = ref("DM_ETL_007", zerolog.InfoLevel, "Record successfully migrated")
	DMETL008 = ref("DM_ETL_008", zerolog.ErrorLevel, "Error processing record: {error}")
	DMETL009 = ref("DM_ETL_009", zerolog.ErrorLevel, "Error parsing event: {error}")
	DMETL010 = ref("DM_ETL_010", zerolog.WarnLevel, "Unsupported service event method: {method}")
	DMETL011 = ref("DM_ETL_011", zerolog.WarnLevel, "Table {table_name} not supported for event method: {method}")
	DMETL012 = ref("DM_ETL_012", zerolog.WarnLevel, "No symptom discriminators found for Symptom Group ID: {sg_id}")
	DMETL013 = ref("DM_ETL_013", zerolog.WarnLevel, "Record {record_id} has {issue_count} validation issues {issues}")
	DMETL014 = ref("DM_ETL_014", zerolog.WarnLevel, "Record {record_id} failed validation and was not migrated")
	DMETL015 = ref("DM_ETL_015", zerolog.InfoLevel, "Address for Organisation ID {organisation} is {address}")
	DMETL016 = ref("DM_ETL_016", zerolog.WarnLevel, "No address found for Organisation ID {organisation}, setting address to None")
	DMETL017 = ref("DM_ETL_017", zerolog.InfoLevel, "No ageEligibilityCriteria created for Service ID {service_id} as no age range found")
	DMETL018 = ref("DM_ETL_018", zerolog.InfoLevel, "Migration run {run_id} recorded with status {status}")
	DMETL999 = ref("DM_ETL_999", zerolog.InfoLevel, "Data Migration ETL Pipeline completed successfully.")
)

// Queue populator.
var (
	DMQP000 = ref("DM_QP_000", zerolog.InfoLevel, "Starting Data Migration Queue Populator")
	DMQP001 = ref("DM_QP_001", zerolog.InfoLevel, "Populating queue with {count} total messages")
	DMQP002 = ref("DM_QP_002", zerolog.DebugLevel, "Sending {count} messages to queue")
	DMQP003 = ref("DM_QP_003", zerolog.ErrorLevel, "Failed to send {count} messages to queue")
	DMQP004 = ref("DM_QP_004", zerolog.DebugLevel, "Successfully sent {count} messages to queue")
	DMQP999 = ref("DM_QP_999", zerolog.InfoLevel, "Data Migration Queue Populator completed")
)

// Reference data load.
var (
	DMRDL000 = ref("DM_RDL_000", zerolog.InfoLevel, "Starting reference data load for {type}")
	DMRDL001 = ref("DM_RDL_001", zerolog.DebugLevel, "Loaded {count} {code_type} triage codes")
	DMRDL002 = ref("DM_RDL_002", zerolog.ErrorLevel, "Error loading triage code {id}: {error}")
	DMRDL999 = ref("DM_RDL_999", zerolog.InfoLevel, "Reference data load completed")
)

// Table export and restore.
var (
	DMSEED000 = ref("DM_SEED_000", zerolog.InfoLevel, "Exporting table {table_name} to {bucket}/{key}")
	DMSEED001 = ref("DM_SEED_001", zerolog.InfoLevel, "Exported {count} documents from {table_name}")
	DMSEED002 = ref("DM_SEED_002", zerolog.InfoLevel, "Restoring {entity} from {key} into {table_name}")
	DMSEED003 = ref("DM_SEED_003", zerolog.ErrorLevel, "Error restoring batch into {table_name}: {error}")
	DMSEED004 = ref("DM_SEED_004", zerolog.InfoLevel, "Restored {count} documents into {table_name}")
)

// Address formatting.
var (
	AddressFormatter000 = ref("UTILS_ADDRESS_FORMATTER_000", zerolog.InfoLevel, "Formatting address with address: {address}, town: {town}, postcode: {postcode}")
	AddressFormatter001 = ref("UTILS_ADDRESS_FORMATTER_001", zerolog.DebugLevel, "Searching county for name: {county_name}")
	AddressFormatter002 = ref("UTILS_ADDRESS_FORMATTER_002", zerolog.WarnLevel, "Error searching for county {county_name}: {error}")
	AddressFormatter003 = ref("UTILS_ADDRESS_FORMATTER_003", zerolog.DebugLevel, "Matched county name: {county_name}")
	AddressFormatter004 = ref("UTILS_ADDRESS_FORMATTER_004", zerolog.DebugLevel, "No county match found for name falling back to predefined list: {county_name}")
	AddressFormatter005 = ref("UTILS_ADDRESS_FORMATTER_005", zerolog.DebugLevel, "No county found for name: {county_name}")
)
