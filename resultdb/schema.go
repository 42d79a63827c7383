// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package resultdb

const resultTableSchema = `CREATE TABLE IF NOT EXISTS result (
	epoch INTEGER PRIMARY KEY NOT NULL,
	proposer INTEGER NOT NULL,
	median BLOB(32) NOT NULL,
	twoFive BLOB(32) NOT NULL,
	sevenFive BLOB(32) NOT NULL,
	challenged INTEGER NOT NULL,
	challenger BLOB(20),
	voters INTEGER NOT NULL,
	totalWeight BLOB(32) NOT NULL,
	finalizedAt INTEGER NOT NULL
);`
