package store

// migration is one ordered schema change.
type migration struct {
	version int
	sql     string
}

var migrations = []migration{
	{
		version: 1,
		sql: `
			CREATE TABLE IF NOT EXISTS schema_version (
				version INTEGER NOT NULL
			);

			CREATE TABLE IF NOT EXISTS extractions (
				id TEXT PRIMARY KEY,
				sample_count INTEGER NOT NULL,
				tone TEXT NOT NULL DEFAULT '',
				formality INTEGER NOT NULL DEFAULT 0,
				degraded INTEGER NOT NULL DEFAULT 0,
				created_at TIMESTAMP NOT NULL
			);

			CREATE TABLE IF NOT EXISTS drafts (
				id TEXT PRIMARY KEY,
				message_id TEXT NOT NULL,
				subject TEXT NOT NULL DEFAULT '',
				sender TEXT NOT NULL DEFAULT '',
				body TEXT NOT NULL,
				accepted INTEGER NOT NULL DEFAULT 0,
				attempts INTEGER NOT NULL DEFAULT 1,
				created_at TIMESTAMP NOT NULL
			);

			CREATE INDEX IF NOT EXISTS idx_drafts_created
				ON drafts(created_at DESC);

			INSERT INTO schema_version (version) VALUES (1);
		`,
	},
}
