package sqlite

// The samples table is a single denormalized fact table. The composite
// primary key is the identity of a measurement: at most one concentration
// value exists for a given combination of date, site and assay target.
const createSamplesTable = `
CREATE TABLE IF NOT EXISTS wastewater_samples (
    sample_collection_date            TEXT    NOT NULL,
    site_name                         TEXT    NOT NULL,
    county                            TEXT    NOT NULL,
    pcr_pathogen_target               TEXT    NOT NULL,
    pcr_gene_target                   TEXT    NOT NULL,
    normalized_pathogen_concentration REAL    NOT NULL,
    date_updated                      TEXT    NOT NULL,
    poll_timestamp                    INTEGER NOT NULL,
    PRIMARY KEY (sample_collection_date, site_name, county, pcr_pathogen_target, pcr_gene_target)
);
`

// Index names are fixed; Verify looks them up in sqlite_master by name.
const (
	pollTimestampIndex = "idx_wastewater_samples_poll_timestamp"
	dateUpdatedIndex   = "idx_wastewater_samples_date_updated"
)

const createPollTimestampIndex = `
CREATE INDEX IF NOT EXISTS idx_wastewater_samples_poll_timestamp
    ON wastewater_samples (poll_timestamp);
`

const createDateUpdatedIndex = `
CREATE INDEX IF NOT EXISTS idx_wastewater_samples_date_updated
    ON wastewater_samples (date_updated);
`

// schemaStatements execute in sequence inside one transaction. The table
// statement must come first; the indexes reference it.
var schemaStatements = []string{
	createSamplesTable,
	createPollTimestampIndex,
	createDateUpdatedIndex,
}
