package resultstore

import (
	"fmt"
	"strings"
)

// Dialect selects DDL and placeholder conventions for the backing
// database. MySQL is the primary target; postgres and sqlite cover CI
// alternatives and local offline runs.
type Dialect string

const (
	DialectMySQL    Dialect = "mysql"
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite3"
)

// DialectForDriver maps a database/sql driver name to a dialect,
// defaulting to MySQL.
func DialectForDriver(driver string) Dialect {
	switch driver {
	case "postgres":
		return DialectPostgres
	case "sqlite3":
		return DialectSQLite
	}
	return DialectMySQL
}

// rebind converts ? placeholders to $n for postgres. MySQL and sqlite
// take the query unchanged.
func (d Dialect) rebind(query string) string {
	if d != DialectPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (d Dialect) pk() string {
	switch d {
	case DialectPostgres:
		return "id BIGSERIAL PRIMARY KEY"
	case DialectSQLite:
		return "id INTEGER PRIMARY KEY AUTOINCREMENT"
	}
	return "id BIGINT AUTO_INCREMENT PRIMARY KEY"
}

func (d Dialect) datetime() string {
	if d == DialectPostgres {
		return "TIMESTAMP"
	}
	return "DATETIME"
}

func (d Dialect) tableSuffix() string {
	if d == DialectMySQL {
		return " ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci"
	}
	return ""
}

// schemaStatements returns the idempotent DDL for every table the
// store owns, in dependency order.
func (d Dialect) schemaStatements() []string {
	status := "VARCHAR(10) NOT NULL"
	if d == DialectMySQL {
		status = "ENUM('PASSED','FAILED','SKIPPED','ERROR') NOT NULL"
	}

	testResults := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS test_results (
	%s,
	test_case_name VARCHAR(255) NOT NULL,
	module_name VARCHAR(255) NOT NULL,
	test_status %s,
	test_datetime %s NOT NULL,
	error_message TEXT,
	error_summary VARCHAR(250),
	total_time_duration DECIMAL(10,3),
	device_name VARCHAR(100),
	screen_resolution VARCHAR(50),
	error_link TEXT,
	created_at %s NOT NULL
)%s`, d.pk(), status, d.datetime(), d.datetime(), d.tableSuffix())

	users := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS users (
	%s,
	username VARCHAR(100) NOT NULL UNIQUE,
	email VARCHAR(255) NOT NULL UNIQUE,
	password VARCHAR(255) NOT NULL,
	first_name VARCHAR(100),
	last_name VARCHAR(100),
	affiliation VARCHAR(255),
	user_type VARCHAR(20) NOT NULL,
	is_active BOOLEAN NOT NULL DEFAULT TRUE,
	created_at %s NOT NULL
)%s`, d.pk(), d.datetime(), d.tableSuffix())

	books := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS books (
	%s,
	title VARCHAR(255) NOT NULL,
	author VARCHAR(255),
	isbn VARCHAR(30) NOT NULL UNIQUE,
	publisher VARCHAR(255),
	year INTEGER,
	price DECIMAL(10,2) NOT NULL,
	description TEXT,
	category VARCHAR(100),
	is_available BOOLEAN NOT NULL DEFAULT TRUE,
	created_at %s NOT NULL
)%s`, d.pk(), d.datetime(), d.tableSuffix())

	orders := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS orders (
	%s,
	order_number VARCHAR(50) NOT NULL UNIQUE,
	user_id BIGINT NOT NULL,
	book_id BIGINT,
	order_type VARCHAR(30) NOT NULL,
	amount DECIMAL(10,2) NOT NULL,
	payment_method VARCHAR(50),
	payment_status VARCHAR(20) NOT NULL,
	order_status VARCHAR(20) NOT NULL,
	order_date %s NOT NULL,
	completed_date %s,
	created_at %s NOT NULL,
	FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE,
	FOREIGN KEY (book_id) REFERENCES books(id) ON DELETE SET NULL
)%s`, d.pk(), d.datetime(), d.datetime(), d.datetime(), d.tableSuffix())

	subscriptions := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS subscriptions (
	%s,
	user_id BIGINT NOT NULL,
	subscription_type VARCHAR(20) NOT NULL,
	status VARCHAR(20) NOT NULL,
	start_date %s NOT NULL,
	end_date %s NOT NULL,
	amount DECIMAL(10,2) NOT NULL,
	auto_renew BOOLEAN NOT NULL DEFAULT FALSE,
	payment_method VARCHAR(50),
	created_at %s NOT NULL,
	FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
)%s`, d.pk(), d.datetime(), d.datetime(), d.datetime(), d.tableSuffix())

	return []string{testResults, users, books, orders, subscriptions}
}
