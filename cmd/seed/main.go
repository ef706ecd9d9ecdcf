package main

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/corpboard/corpboard/config"
	"github.com/corpboard/corpboard/pkg/helpers"
)

// Seeds the base dataset: the three roles, the admin account, default boards,
// the navigation tree with its explicit permissions, and a handful of test
// users with sample posts. Every statement is an upsert so re-running is safe.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	roleIDs := seedRoles(db)
	seedAdmin(db, roleIDs["ADMIN"])
	boardIDs := seedBoards(db)
	seedMenus(db, boardIDs)
	seedMenuPermissions(db, boardIDs)
	testUserIDs := seedTestUsers(db, roleIDs["USER"])
	seedTestPosts(db, boardIDs, testUserIDs)

	fmt.Println("database seeded")
}

type roleSeed struct {
	code  string
	name  string
	desc  string
	perms string // postgres array literal
}

func seedRoles(db *sql.DB) map[string]int64 {
	roles := []roleSeed{
		{"ADMIN", "Administrator", "Full system access",
			"{MANAGE_BOARDS,MANAGE_MENUS,MANAGE_ROLES,MANAGE_USERS,MODERATE_CONTENT}"},
		{"MANAGER", "Manager", "Content operation and moderation",
			"{MANAGE_BOARDS,MODERATE_CONTENT}"},
		{"USER", "User", "General employee", "{}"},
	}

	ids := make(map[string]int64, len(roles))
	for _, r := range roles {
		var id int64
		err := db.QueryRow(`
			INSERT INTO roles (code, name, description, system_permissions)
			VALUES ($1, $2, $3, $4::text[])
			ON CONFLICT (code) DO UPDATE
				SET name = EXCLUDED.name,
				    description = EXCLUDED.description,
				    system_permissions = EXCLUDED.system_permissions,
				    updated_at = now()
			RETURNING id
		`, r.code, r.name, r.desc, r.perms).Scan(&id)
		if err != nil {
			log.Fatalf("failed to upsert role %s: %v", r.code, err)
		}
		ids[r.code] = id
	}
	fmt.Printf("roles ensured: %v\n", ids)
	return ids
}

func seedAdmin(db *sql.DB, adminRoleID int64) {
	hash, err := helpers.HashPassword("admin1234")
	if err != nil {
		log.Fatalf("failed to hash admin password: %v", err)
	}
	if _, err := db.Exec(`
		INSERT INTO users (username, email, password_hash, role_id, is_active, is_locked)
		VALUES ('admin', 'admin@corpboard.com', $1, $2, true, false)
		ON CONFLICT (username) DO UPDATE
			SET email = EXCLUDED.email,
			    role_id = EXCLUDED.role_id,
			    is_active = true,
			    updated_at = now()
	`, hash, adminRoleID); err != nil {
		log.Fatalf("failed to seed admin user: %v", err)
	}
	fmt.Println("admin ensured: admin / admin1234")
}

type boardSeed struct {
	key        string
	name       string
	desc       string
	boardType  string
	sortOrder  int
	readRoles  string
	writeRoles string
}

func seedBoards(db *sql.DB) map[string]int64 {
	allRead := "{USER,MANAGER,ADMIN}"
	boards := []boardSeed{
		{"notice", "Notice", "Company-wide announcements", "general", 1, allRead, "{MANAGER,ADMIN}"},
		{"free", "Free Board", "Open discussion board", "general", 2, allRead, allRead},
		{"library", "Library", "Shared resources and templates", "general", 3, allRead, "{MANAGER,ADMIN}"},
		{"qna", "Q&A", "Questions and answers", "qna", 4, allRead, allRead},
	}

	ids := make(map[string]int64, len(boards))
	for _, b := range boards {
		var id int64
		err := db.QueryRow(`
			INSERT INTO boards (key, name, description, board_type, is_active, sort_order, read_roles, write_roles)
			VALUES ($1, $2, $3, $4, true, $5, $6::text[], $7::text[])
			ON CONFLICT (key) DO UPDATE
				SET name = EXCLUDED.name,
				    description = EXCLUDED.description,
				    board_type = EXCLUDED.board_type,
				    is_active = true,
				    sort_order = EXCLUDED.sort_order,
				    read_roles = EXCLUDED.read_roles,
				    write_roles = EXCLUDED.write_roles,
				    updated_at = now()
			RETURNING id
		`, b.key, b.name, b.desc, b.boardType, b.sortOrder, b.readRoles, b.writeRoles).Scan(&id)
		if err != nil {
			log.Fatalf("failed to upsert board %s: %v", b.key, err)
		}
		ids[b.key] = id
	}
	fmt.Printf("boards ensured: %v\n", ids)
	return ids
}

func upsertCategory(db *sql.DB, name, icon string, sortOrder int) int64 {
	var id int64
	err := db.QueryRow(`SELECT id FROM menus WHERE path = '__category__' AND name = $1`, name).Scan(&id)
	if err == nil {
		if _, err := db.Exec(`
			UPDATE menus SET icon = $2, sort_order = $3, parent_id = NULL, board_id = NULL,
			                 is_active = true, updated_at = now()
			WHERE id = $1
		`, id, icon, sortOrder); err != nil {
			log.Fatalf("failed to update category %s: %v", name, err)
		}
		return id
	}
	if err != sql.ErrNoRows {
		log.Fatalf("failed to look up category %s: %v", name, err)
	}
	if err := db.QueryRow(`
		INSERT INTO menus (name, path, icon, sort_order, is_active)
		VALUES ($1, '__category__', $2, $3, true)
		RETURNING id
	`, name, icon, sortOrder).Scan(&id); err != nil {
		log.Fatalf("failed to insert category %s: %v", name, err)
	}
	return id
}

func upsertMenu(db *sql.DB, name, path, icon string, sortOrder int, boardID, parentID interface{}) {
	if _, err := db.Exec(`
		INSERT INTO menus (name, path, icon, sort_order, board_id, parent_id, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, true)
		ON CONFLICT (path) WHERE path <> '__category__' DO UPDATE
			SET name = EXCLUDED.name,
			    icon = EXCLUDED.icon,
			    sort_order = EXCLUDED.sort_order,
			    board_id = EXCLUDED.board_id,
			    parent_id = EXCLUDED.parent_id,
			    is_active = true,
			    updated_at = now()
	`, name, path, icon, sortOrder, boardID, parentID); err != nil {
		log.Fatalf("failed to upsert menu %s: %v", path, err)
	}
}

func seedMenus(db *sql.DB, boards map[string]int64) {
	mainCat := upsertCategory(db, "Menu", "LayoutDashboard", 1)
	mgmtCat := upsertCategory(db, "Management", "Shield", 100)

	upsertMenu(db, "Notice", fmt.Sprintf("/boards/%d", boards["notice"]), "Bell", 1, boards["notice"], mainCat)
	upsertMenu(db, "Free Board", fmt.Sprintf("/boards/%d", boards["free"]), "MessageCircle", 2, boards["free"], mainCat)
	upsertMenu(db, "Library", fmt.Sprintf("/boards/%d", boards["library"]), "Library", 3, boards["library"], mainCat)
	upsertMenu(db, "Q&A", fmt.Sprintf("/boards/%d", boards["qna"]), "CircleHelp", 4, boards["qna"], mainCat)

	upsertMenu(db, "Board Management", "/admin/boards", "Shield", 101, nil, mgmtCat)
	upsertMenu(db, "Menu Management", "/admin/menus", "Settings", 102, nil, mgmtCat)
	upsertMenu(db, "Member Management", "/admin/users", "LayoutDashboard", 103, nil, mgmtCat)
	upsertMenu(db, "Role Management", "/admin/roles", "Shield", 104, nil, mgmtCat)

	fmt.Println("menus ensured")
}

// seedMenuPermissions grants each board menu the board's role lists and each
// admin route ADMIN-only access. Existing grants are left untouched.
func seedMenuPermissions(db *sql.DB, boards map[string]int64) {
	rows, err := db.Query(`
		SELECT m.id, m.path, m.board_id,
		       COALESCE(b.read_roles, '{}'), COALESCE(b.write_roles, '{}')
		FROM menus m
		LEFT JOIN boards b ON b.id = m.board_id
		WHERE m.is_active AND m.path <> '__category__'
		ORDER BY m.sort_order, m.id
	`)
	if err != nil {
		log.Fatalf("failed to list menus: %v", err)
	}
	defer func() { _ = rows.Close() }()

	type menuRow struct {
		id         int64
		path       string
		boardID    sql.NullInt64
		readRoles  string
		writeRoles string
	}
	var menus []menuRow
	for rows.Next() {
		var m menuRow
		if err := rows.Scan(&m.id, &m.path, &m.boardID, &m.readRoles, &m.writeRoles); err != nil {
			log.Fatalf("failed to scan menu: %v", err)
		}
		menus = append(menus, m)
	}
	if err := rows.Err(); err != nil {
		log.Fatalf("failed reading menus: %v", err)
	}

	for _, m := range menus {
		read, write := "{ADMIN}", "{ADMIN}"
		if m.boardID.Valid && len(m.path) > 0 && m.path[0] == '/' && m.path != "/admin" {
			read, write = m.readRoles, m.writeRoles
		}
		if _, err := db.Exec(`
			INSERT INTO menu_permissions (menu_id, role_code, can_read, can_write)
			SELECT $1, r.code, r.code = ANY($2::text[]) OR r.code = ANY($3::text[]), r.code = ANY($3::text[])
			FROM roles r
			WHERE r.code = ANY($2::text[]) OR r.code = ANY($3::text[])
			ON CONFLICT (menu_id, role_code) DO NOTHING
		`, m.id, read, write); err != nil {
			log.Fatalf("failed to seed permissions for menu %d: %v", m.id, err)
		}
	}
	fmt.Println("menu permissions ensured")
}

func seedTestUsers(db *sql.DB, userRoleID int64) []int64 {
	hash, err := helpers.HashPassword("test1234")
	if err != nil {
		log.Fatalf("failed to hash test password: %v", err)
	}
	ids := make([]int64, 0, 5)
	for i := 1; i <= 5; i++ {
		username := fmt.Sprintf("testuser%d", i)
		email := fmt.Sprintf("testuser%d@corpboard.com", i)
		var id int64
		err := db.QueryRow(`
			INSERT INTO users (username, email, password_hash, role_id, is_active, is_locked)
			VALUES ($1, $2, $3, $4, true, false)
			ON CONFLICT (username) DO UPDATE
				SET email = EXCLUDED.email,
				    role_id = EXCLUDED.role_id,
				    is_active = true,
				    is_locked = false,
				    updated_at = now()
			RETURNING id
		`, username, email, hash, userRoleID).Scan(&id)
		if err != nil {
			log.Fatalf("failed to upsert %s: %v", username, err)
		}
		ids = append(ids, id)
	}
	fmt.Printf("test users ensured: %d\n", len(ids))
	return ids
}

func seedTestPosts(db *sql.DB, boards map[string]int64, userIDs []int64) {
	cycle := []string{"free", "qna", "free", "free", "qna"}

	for _, userID := range userIDs {
		for n := 1; n <= 10; n++ {
			boardKey := cycle[(n-1)%len(cycle)]
			boardID := boards[boardKey]
			qnaStatus := ""
			if boardKey == "qna" {
				if n%2 == 0 {
					qnaStatus = "ANSWERED"
				} else {
					qnaStatus = "OPEN"
				}
			}
			title := fmt.Sprintf("[SEED TEST] user %d sample post %d", userID, n)
			if _, err := db.Exec(`
				INSERT INTO posts (board_id, title, content, author_id, is_pinned, qna_status)
				SELECT $1, $2, $3, $4, false, $5
				WHERE NOT EXISTS (
					SELECT 1 FROM posts WHERE author_id = $4 AND title = $2
				)
			`, boardID, title,
				fmt.Sprintf("Auto-generated test content #%d.", n),
				userID, qnaStatus); err != nil {
				log.Fatalf("failed to seed post %q: %v", title, err)
			}
		}
	}
	fmt.Println("test posts ensured")
}
