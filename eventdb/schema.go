// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventdb

const eventTableSchema = `CREATE TABLE IF NOT EXISTS event (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	timestamp INTEGER NOT NULL,
	address BLOB(20) NOT NULL,
	name TEXT NOT NULL,
	user BLOB(20) NOT NULL,
	amount TEXT,
	fields TEXT
);

CREATE INDEX IF NOT EXISTS event_i0 ON event(user, timestamp);
CREATE INDEX IF NOT EXISTS event_i1 ON event(name, timestamp);
CREATE INDEX IF NOT EXISTS event_i2 ON event(address, timestamp);
`
