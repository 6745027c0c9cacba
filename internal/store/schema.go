package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS meals (
    meal_id              TEXT PRIMARY KEY,
    user_id              TEXT NOT NULL,
    meal_type            TEXT NOT NULL,
    cost                 REAL NOT NULL,
    occurred_at_ns       INTEGER NOT NULL,
    notes                TEXT,
    source_file          TEXT,
    created_at           TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS achievement_unlocks (
    user_id              TEXT NOT NULL,
    achievement_id       TEXT NOT NULL,
    unlocked_at          TEXT NOT NULL,
    PRIMARY KEY (user_id, achievement_id)
);

CREATE TABLE IF NOT EXISTS file_tracker (
    file_path            TEXT PRIMARY KEY,
    mtime_ns             INTEGER NOT NULL,
    size_bytes           INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_meals_user_time ON meals(user_id, occurred_at_ns);
CREATE INDEX IF NOT EXISTS idx_meals_source ON meals(source_file);
`
