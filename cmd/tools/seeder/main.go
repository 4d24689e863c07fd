package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		log.Fatalf("Failed to open DB: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping DB: %v", err)
	}

	seedUsers(db)
	seedBooks(db)
	seedExchangeRates(db)
	seedCoupons(db)

	log.Println("Seeding completed successfully!")
}

func seedUsers(db *sql.DB) {
	users := []struct {
		Name  string
		Email string
		Role  string
	}{
		{"Admin", "admin@libraria.al", "admin"},
		{"Arber Hoxha", "arber@example.com", "customer"},
		{"Elona Krasniqi", "elona@example.com", "customer"},
		{"Gent Berisha", "gent@example.com", "customer"},
		{"Mirela Shehu", "mirela@example.com", "customer"},
	}

	fmt.Println("Seeding Users...")
	for _, u := range users {
		_, err := db.Exec(`
			INSERT INTO users (name, email, roles)
			VALUES ($1, $2, ARRAY[$3])
			ON CONFLICT (email) DO NOTHING;
		`, u.Name, u.Email, u.Role)
		if err != nil {
			log.Printf("Failed to seed user %s: %v", u.Email, err)
		}
	}
}

func seedBooks(db *sql.DB) {
	books := []struct {
		Title      string
		Slug       string
		Author     string
		PriceAll   int64
		PriceEur   int64
		DigAll     int64
		DigEur     int64
		Inventory  int
		HasDigital bool
	}{
		{"Kronikë në gur", "kronike-ne-gur", "Ismail Kadare", 1500, 1500, 900, 900, 40, true},
		{"Gjenerali i ushtrisë së vdekur", "gjenerali-i-ushtrise-se-vdekur", "Ismail Kadare", 1800, 1800, 1000, 1000, 35, true},
		{"Pallati i ëndrrave", "pallati-i-endrrave", "Ismail Kadare", 1600, 1600, 950, 950, 25, true},
		{"Lahuta e Malcís", "lahuta-e-malcis", "Gjergj Fishta", 2200, 2200, 0, 0, 15, false},
		{"Tregtar flamujsh", "tregtar-flamujsh", "Ernest Koliqi", 1400, 1400, 800, 800, 20, true},
		{"Sikur t'isha djalë", "sikur-tisha-djale", "Haki Stërmilli", 1200, 1200, 0, 0, 30, false},
		{"Lumi i vdekur", "lumi-i-vdekur", "Jakov Xoxa", 1700, 1700, 950, 950, 18, true},
		{"Vepra të zgjedhura", "vepra-te-zgjedhura-migjeni", "Migjeni", 1300, 1300, 750, 750, 50, true},
	}

	fmt.Println("Seeding Books...")
	for _, b := range books {
		_, err := db.Exec(`
			INSERT INTO books (title, slug, author, price_all, price_eur, digital_price_all, digital_price_eur, inventory, has_digital, digital_asset_ref, active)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, CASE WHEN $9 THEN 'asset://' || $2 END, true)
			ON CONFLICT (slug) DO UPDATE SET
				price_all = EXCLUDED.price_all,
				price_eur = EXCLUDED.price_eur,
				digital_price_all = EXCLUDED.digital_price_all,
				digital_price_eur = EXCLUDED.digital_price_eur,
				inventory = EXCLUDED.inventory,
				has_digital = EXCLUDED.has_digital;
		`, b.Title, b.Slug, b.Author, b.PriceAll, b.PriceEur, b.DigAll, b.DigEur, b.Inventory, b.HasDigital)
		if err != nil {
			log.Printf("Failed to seed book %s: %v", b.Title, err)
		}
	}
}

func seedExchangeRates(db *sql.DB) {
	fmt.Println("Seeding Exchange Rates...")
	rates := []struct {
		From string
		To   string
		Rate string
	}{
		{"EUR", "ALL", "98.500000"},
		{"ALL", "EUR", "0.010152"},
	}
	for _, r := range rates {
		_, err := db.Exec(`
			INSERT INTO exchange_rates (from_currency, to_currency, rate, is_active)
			VALUES ($1::currency_code, $2::currency_code, $3::numeric, true)
			ON CONFLICT (from_currency, to_currency) DO UPDATE SET
				rate = EXCLUDED.rate,
				is_active = true,
				updated_at = now();
		`, r.From, r.To, r.Rate)
		if err != nil {
			log.Printf("Failed to seed rate %s->%s: %v", r.From, r.To, err)
		}
	}
}

func seedCoupons(db *sql.DB) {
	coupons := []struct {
		Code       string
		Kind       string
		Value      int64
		PercentBps sql.NullInt32
	}{
		{"WELCOME", "fixed_amount", 200, sql.NullInt32{}},
		{"READER10", "percent", 0, sql.NullInt32{Int32: 1000, Valid: true}},
	}

	fmt.Println("Seeding Coupons...")
	for _, c := range coupons {
		_, err := db.Exec(`
			INSERT INTO coupons (code, kind, value, percent_bps, valid_from, valid_to)
			VALUES ($1, $2, $3, $4, NOW(), NOW() + INTERVAL '1 year')
			ON CONFLICT (code) DO NOTHING;
		`, c.Code, c.Kind, c.Value, c.PercentBps)
		if err != nil {
			log.Printf("Failed to seed coupon %s: %v", c.Code, err)
		}
	}
}
