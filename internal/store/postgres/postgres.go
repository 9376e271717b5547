package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pgvector/pgvector-go"

	"github.com/infohub-ai/knowledge-companion/internal/model"
	"github.com/infohub-ai/knowledge-companion/internal/store"
)

// Open opens a PostgreSQL connection using the pgx stdlib driver and verifies connectivity.
func Open(dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres DSN is empty")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// NewWithDB constructs a Postgres store backed directly by database/sql.
func NewWithDB(db *sql.DB) store.Store { return &pgStore{db: db} }

type pgStore struct{ db *sql.DB }

func (s *pgStore) Customers() store.Customers             { return &customers{db: s.db} }
func (s *pgStore) Aliases() store.Aliases                 { return &aliases{db: s.db} }
func (s *pgStore) Contacts() store.Contacts               { return &contacts{db: s.db} }
func (s *pgStore) Notes() store.Notes                     { return &notes{db: s.db} }
func (s *pgStore) Tasks() store.Tasks                     { return &tasks{db: s.db} }
func (s *pgStore) FeatureRequests() store.FeatureRequests { return &featureRequests{db: s.db} }
func (s *pgStore) Neighbors() store.Neighbors             { return &neighbors{db: s.db} }

// HealthPing implements health.HealthPinger for the Postgres-backed store.
func (s *pgStore) HealthPing(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Schema lists public tables and their columns from information_schema.
func (s *pgStore) Schema(ctx context.Context) ([]model.TableSchema, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT table_name, column_name
        FROM information_schema.columns
        WHERE table_schema = 'public'
        ORDER BY table_name, ordinal_position
    `)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []model.TableSchema
	var cur *model.TableSchema
	for rows.Next() {
		var table, column string
		if err := rows.Scan(&table, &column); err != nil {
			return nil, err
		}
		if cur == nil || cur.Table != table {
			out = append(out, model.TableSchema{Table: table})
			cur = &out[len(out)-1]
		}
		cur.Columns = append(cur.Columns, column)
	}
	return out, rows.Err()
}

// vecParam converts a raw embedding to the wire type, preserving NULL.
func vecParam(vec []float32) interface{} {
	if vec == nil {
		return nil
	}
	return pgvector.NewVector(vec)
}

// uuidArg passes an optional uuid as a nullable query parameter.
func uuidArg(id *uuid.UUID) interface{} {
	if id == nil {
		return nil
	}
	return *id
}

// --- Customers ---

type customers struct{ db *sql.DB }

func (c *customers) Create(ctx context.Context, m *model.Customer, als []model.CustomerAlias) (*model.Customer, error) {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	id := m.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	var created, updated time.Time
	row := tx.QueryRowContext(ctx, `
        INSERT INTO customer (id, name, industry, size, region, status,
                              jira_project_key, salesforce_account_id, mainpage_url)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING created_at, updated_at
    `, id, m.Name, m.Industry, m.Size, m.Region, m.Status,
		m.JiraProjectKey, m.SalesforceAccountID, m.MainpageURL)
	if err := row.Scan(&created, &updated); err != nil {
		return nil, err
	}

	out := *m
	out.ID = id
	out.CreatedAt = created
	out.UpdatedAt = updated
	out.Aliases = out.Aliases[:0]
	for _, a := range als {
		aliasID := a.ID
		if aliasID == uuid.Nil {
			aliasID = uuid.New()
		}
		if _, err := tx.ExecContext(ctx, `
            INSERT INTO customer_alias (id, customer_id, alias, embedding)
            VALUES ($1,$2,$3,$4)
        `, aliasID, id, a.Alias, vecParam(a.Embedding)); err != nil {
			return nil, err
		}
		out.Aliases = append(out.Aliases, a.Alias)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *customers) GetByID(ctx context.Context, id uuid.UUID) (*model.Customer, error) {
	out, err := c.scanOne(ctx, `WHERE id = $1`, id)
	if err != nil {
		return nil, err
	}
	if err := attachAliases(ctx, c.db, []*model.Customer{out}); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *customers) scanOne(ctx context.Context, where string, args ...interface{}) (*model.Customer, error) {
	var out model.Customer
	row := c.db.QueryRowContext(ctx, `
        SELECT id, name, industry, size, region, status,
               jira_project_key, salesforce_account_id, mainpage_url,
               created_at, updated_at
        FROM customer `+where, args...)
	if err := row.Scan(&out.ID, &out.Name, &out.Industry, &out.Size, &out.Region, &out.Status,
		&out.JiraProjectKey, &out.SalesforceAccountID, &out.MainpageURL,
		&out.CreatedAt, &out.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}
	return &out, nil
}

func (c *customers) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*model.Customer, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	idStrs := make([]string, len(ids))
	for i, id := range ids {
		idStrs[i] = id.String()
	}
	idsJSON, _ := json.Marshal(idStrs)
	rows, err := c.db.QueryContext(ctx, `
        SELECT id, name, industry, size, region, status,
               jira_project_key, salesforce_account_id, mainpage_url,
               created_at, updated_at
        FROM customer
        WHERE id IN (SELECT value::uuid FROM json_array_elements_text($1::json) AS t(value))
    `, string(idsJSON))
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	out, err := scanCustomers(rows)
	if err != nil {
		return nil, err
	}
	if err := attachAliases(ctx, c.db, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *customers) Find(ctx context.Context, id *uuid.UUID, name string) ([]*model.Customer, error) {
	q := `
        SELECT id, name, industry, size, region, status,
               jira_project_key, salesforce_account_id, mainpage_url,
               created_at, updated_at
        FROM customer
        WHERE ($1::uuid IS NULL OR id = $1)
          AND ($2 = '' OR name ILIKE '%' || $2 || '%')
        ORDER BY created_at
    `
	rows, err := c.db.QueryContext(ctx, q, uuidArg(id), name)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	out, err := scanCustomers(rows)
	if err != nil {
		return nil, err
	}
	if err := attachAliases(ctx, c.db, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *customers) Rename(ctx context.Context, id uuid.UUID, name string) error {
	res, err := c.db.ExecContext(ctx, `
        UPDATE customer SET name = $2, updated_at = now() WHERE id = $1
    `, id, name)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (c *customers) Delete(ctx context.Context, id uuid.UUID) error {
	// Owned aliases, contacts, notes, tasks and feature requests cascade.
	res, err := c.db.ExecContext(ctx, `DELETE FROM customer WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func scanCustomers(rows *sql.Rows) ([]*model.Customer, error) {
	var out []*model.Customer
	for rows.Next() {
		var m model.Customer
		if err := rows.Scan(&m.ID, &m.Name, &m.Industry, &m.Size, &m.Region, &m.Status,
			&m.JiraProjectKey, &m.SalesforceAccountID, &m.MainpageURL,
			&m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}

func attachAliases(ctx context.Context, db *sql.DB, cs []*model.Customer) error {
	byID := make(map[uuid.UUID]*model.Customer, len(cs))
	idStrs := make([]string, 0, len(cs))
	for _, c := range cs {
		byID[c.ID] = c
		idStrs = append(idStrs, c.ID.String())
	}
	if len(idStrs) == 0 {
		return nil
	}
	idsJSON, _ := json.Marshal(idStrs)
	rows, err := db.QueryContext(ctx, `
        SELECT customer_id, alias FROM customer_alias
        WHERE customer_id IN (SELECT value::uuid FROM json_array_elements_text($1::json) AS t(value))
        ORDER BY seq
    `, string(idsJSON))
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var cid uuid.UUID
		var alias string
		if err := rows.Scan(&cid, &alias); err != nil {
			return err
		}
		if c, ok := byID[cid]; ok {
			c.Aliases = append(c.Aliases, alias)
		}
	}
	return rows.Err()
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return model.ErrNotFound
	}
	return nil
}

// --- Aliases ---

type aliases struct{ db *sql.DB }

func (a *aliases) Add(ctx context.Context, customerID uuid.UUID, als []model.CustomerAlias) error {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, al := range als {
		id := al.ID
		if id == uuid.Nil {
			id = uuid.New()
		}
		if _, err := tx.ExecContext(ctx, `
            INSERT INTO customer_alias (id, customer_id, alias, embedding)
            VALUES ($1,$2,$3,$4)
        `, id, customerID, al.Alias, vecParam(al.Embedding)); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (a *aliases) DeleteByText(ctx context.Context, customerID uuid.UUID, texts []string) (int64, error) {
	if len(texts) == 0 {
		return 0, nil
	}
	textsJSON, _ := json.Marshal(texts)
	res, err := a.db.ExecContext(ctx, `
        DELETE FROM customer_alias
        WHERE customer_id = $1
          AND alias IN (SELECT value FROM json_array_elements_text($2::json) AS t(value))
    `, customerID, string(textsJSON))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (a *aliases) RefreshEmbedding(ctx context.Context, customerID uuid.UUID, alias string, vec []float32) (bool, error) {
	res, err := a.db.ExecContext(ctx, `
        UPDATE customer_alias SET embedding = $3
        WHERE id = (
            SELECT id FROM customer_alias
            WHERE customer_id = $1 AND alias = $2
            ORDER BY seq LIMIT 1
        )
    `, customerID, alias, vecParam(vec))
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// --- Contacts ---

type contacts struct{ db *sql.DB }

func (c *contacts) Create(ctx context.Context, m *model.Contact) (*model.Contact, error) {
	id := m.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	if _, err := c.db.ExecContext(ctx, `
        INSERT INTO contact (id, customer_id, name, role, email, phone, notes, name_embedding)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
    `, id, m.CustomerID, m.Name, m.Role, m.Email, m.Phone, m.Notes, vecParam(m.Embedding)); err != nil {
		return nil, err
	}
	out := *m
	out.ID = id
	return &out, nil
}

func (c *contacts) GetByID(ctx context.Context, id uuid.UUID) (*model.Contact, error) {
	var out model.Contact
	row := c.db.QueryRowContext(ctx, `
        SELECT id, customer_id, name, role, email, phone, notes
        FROM contact WHERE id = $1
    `, id)
	if err := row.Scan(&out.ID, &out.CustomerID, &out.Name, &out.Role, &out.Email, &out.Phone, &out.Notes); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}
	return &out, nil
}

func (c *contacts) Update(ctx context.Context, m *model.Contact) error {
	res, err := c.db.ExecContext(ctx, `
        UPDATE contact
        SET name = $2, role = $3, email = $4, phone = $5, notes = $6,
            name_embedding = COALESCE($7, name_embedding)
        WHERE id = $1
    `, m.ID, m.Name, m.Role, m.Email, m.Phone, m.Notes, vecParam(m.Embedding))
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (c *contacts) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := c.db.ExecContext(ctx, `DELETE FROM contact WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// contactFilterColumns whitelists fields usable in dynamic contact search.
var contactFilterColumns = map[string]string{
	"name":  "name",
	"role":  "role",
	"email": "email",
	"phone": "phone",
	"notes": "notes",
}

func (c *contacts) Search(ctx context.Context, customerID *uuid.UUID, filters []model.FieldFilter) ([]*model.Contact, error) {
	q := `
        SELECT id, customer_id, name, role, email, phone, notes
        FROM contact
        WHERE ($1::uuid IS NULL OR customer_id = $1)
    `
	args := []interface{}{uuidArg(customerID)}
	for _, f := range filters {
		col, ok := contactFilterColumns[f.Field]
		if !ok {
			return nil, fmt.Errorf("%w: unknown contact filter field %q", model.ErrValidation, f.Field)
		}
		args = append(args, f.Value)
		q += fmt.Sprintf(" AND %s ILIKE '%%' || $%d || '%%'", col, len(args))
	}
	q += " ORDER BY seq"

	rows, err := c.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []*model.Contact
	for rows.Next() {
		var m model.Contact
		if err := rows.Scan(&m.ID, &m.CustomerID, &m.Name, &m.Role, &m.Email, &m.Phone, &m.Notes); err != nil {
			return nil, err
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}

// --- Notes ---

type notes struct{ db *sql.DB }

func (n *notes) Create(ctx context.Context, m *model.Note) (*model.Note, error) {
	id := m.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	tags, err := json.Marshal(m.Tags)
	if err != nil {
		return nil, err
	}
	if _, err := n.db.ExecContext(ctx, `
        INSERT INTO customer_note (id, customer_id, author, note_time, category,
                                   summary, full_note, tags, source, embedding)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
    `, id, m.CustomerID, m.Author, m.NoteTime, m.Category,
		m.Summary, m.FullNote, tags, m.Source, vecParam(m.Embedding)); err != nil {
		return nil, err
	}
	out := *m
	out.ID = id
	return &out, nil
}

func (n *notes) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*model.Note, error) {
	rows, err := n.db.QueryContext(ctx, `
        SELECT id, customer_id, author, note_time, category, summary, full_note, tags, source
        FROM customer_note WHERE customer_id = $1 ORDER BY seq
    `, customerID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []*model.Note
	for rows.Next() {
		var m model.Note
		var tags []byte
		if err := rows.Scan(&m.ID, &m.CustomerID, &m.Author, &m.NoteTime, &m.Category,
			&m.Summary, &m.FullNote, &tags, &m.Source); err != nil {
			return nil, err
		}
		if len(tags) > 0 {
			if err := json.Unmarshal(tags, &m.Tags); err != nil {
				return nil, err
			}
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}

// --- Tasks ---

type tasks struct{ db *sql.DB }

func (t *tasks) Create(ctx context.Context, m *model.Task) (*model.Task, error) {
	id := m.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	if _, err := t.db.ExecContext(ctx, `
        INSERT INTO task (id, customer_id, title, due_date, status, assigned_to, summary, embedding)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
    `, id, m.CustomerID, m.Title, m.DueDate, m.Status, m.AssignedTo, m.Summary, vecParam(m.Embedding)); err != nil {
		return nil, err
	}
	out := *m
	out.ID = id
	return &out, nil
}

func (t *tasks) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*model.Task, error) {
	rows, err := t.db.QueryContext(ctx, `
        SELECT id, customer_id, title, due_date, status, assigned_to, summary
        FROM task WHERE customer_id = $1 ORDER BY seq
    `, customerID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []*model.Task
	for rows.Next() {
		var m model.Task
		if err := rows.Scan(&m.ID, &m.CustomerID, &m.Title, &m.DueDate, &m.Status, &m.AssignedTo, &m.Summary); err != nil {
			return nil, err
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}

// --- Feature requests ---

type featureRequests struct{ db *sql.DB }

func (f *featureRequests) Create(ctx context.Context, m *model.FeatureRequest) (*model.FeatureRequest, error) {
	id := m.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	var created, updated time.Time
	row := f.db.QueryRowContext(ctx, `
        INSERT INTO feature_request (id, customer_id, title, raw_input, summary,
                                     priority, status, estimated_delivery, internal_notes, embedding)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
        RETURNING created_at, updated_at
    `, id, m.CustomerID, m.Title, m.RawInput, m.Summary,
		m.Priority, m.Status, m.EstimatedDelivery, m.InternalNotes, vecParam(m.Embedding))
	if err := row.Scan(&created, &updated); err != nil {
		return nil, err
	}
	out := *m
	out.ID = id
	out.CreatedAt = created
	out.UpdatedAt = updated
	return &out, nil
}

func (f *featureRequests) GetByID(ctx context.Context, id uuid.UUID) (*model.FeatureRequest, error) {
	var out model.FeatureRequest
	row := f.db.QueryRowContext(ctx, `
        SELECT id, customer_id, title, raw_input, summary, priority, status,
               estimated_delivery, internal_notes, created_at, updated_at
        FROM feature_request WHERE id = $1
    `, id)
	if err := row.Scan(&out.ID, &out.CustomerID, &out.Title, &out.RawInput, &out.Summary,
		&out.Priority, &out.Status, &out.EstimatedDelivery, &out.InternalNotes,
		&out.CreatedAt, &out.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}
	return &out, nil
}

func (f *featureRequests) Update(ctx context.Context, m *model.FeatureRequest) error {
	res, err := f.db.ExecContext(ctx, `
        UPDATE feature_request
        SET title = $2, raw_input = $3, summary = $4, priority = $5, status = $6,
            estimated_delivery = $7, internal_notes = $8,
            embedding = COALESCE($9, embedding), updated_at = now()
        WHERE id = $1
    `, m.ID, m.Title, m.RawInput, m.Summary, m.Priority, m.Status,
		m.EstimatedDelivery, m.InternalNotes, vecParam(m.Embedding))
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (f *featureRequests) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := f.db.ExecContext(ctx, `DELETE FROM feature_request WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// --- Nearest-neighbor ranking ---

type neighbors struct{ db *sql.DB }

// kindTargets whitelists the table, source-text column and embedding column
// per searchable kind. Query text is assembled only from these constants.
var kindTargets = map[model.Kind]struct {
	table   string
	textCol string
	embCol  string
}{
	model.KindAlias:          {"customer_alias", "alias", "embedding"},
	model.KindContact:        {"contact", "name", "name_embedding"},
	model.KindNote:           {"customer_note", "summary", "embedding"},
	model.KindTask:           {"task", "summary", "embedding"},
	model.KindFeatureRequest: {"feature_request", "summary", "embedding"},
}

func (n *neighbors) Nearest(ctx context.Context, kind model.Kind, vec []float32, topK int) ([]model.NearestHit, error) {
	target, ok := kindTargets[kind]
	if !ok {
		return nil, fmt.Errorf("%w: unknown search kind %q", model.ErrValidation, kind)
	}

	// Rows with NULL embeddings are excluded from ranking. Ties on distance
	// break on insertion order (seq ascending, first inserted wins).
	q := fmt.Sprintf(`
        SELECT id, customer_id, %[1]s, %[2]s <-> $1 AS distance, seq
        FROM %[3]s
        WHERE %[2]s IS NOT NULL
        ORDER BY %[2]s <-> $1, seq
        LIMIT $2
    `, target.textCol, target.embCol, target.table)

	rows, err := n.db.QueryContext(ctx, q, pgvector.NewVector(vec), topK)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []model.NearestHit
	for rows.Next() {
		var h model.NearestHit
		if err := rows.Scan(&h.RecordID, &h.CustomerID, &h.SourceText, &h.Distance, &h.Seq); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}
