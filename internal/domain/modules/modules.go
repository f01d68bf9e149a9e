// Package modules declares every record type of the farm and its field contract.
package modules

import (
	"sort"

	"github.com/mamadbah2/hannan/internal/domain/badge"
	"github.com/mamadbah2/hannan/internal/domain/derive"
	"github.com/mamadbah2/hannan/internal/domain/models"
)

// Module names.
const (
	Goats            = "goats"
	Breeding         = "breeding"
	Health           = "health"
	Vaccinations     = "vaccinations"
	Feeding          = "feeding"
	SalesBreeding    = "sales_breeding"
	SalesMeat        = "sales_meat"
	Expenses         = "expenses"
	MonthlySummaries = "monthly_summaries"
	Coffee           = "coffee"
	Matooke          = "matooke"
	Notifications    = "notifications"
	Reminders        = "reminders"
)

// Projects group modules into top-level tabs.
const (
	ProjectBreeding = "breeding"
	ProjectCoffee   = "coffee"
	ProjectMatooke  = "matooke"
	ProjectAdmin    = "admin"
)

// Goat status values used by reference filters and the monthly summary.
const (
	StatusActive = "Active"
	StatusSold   = "Sold"
	StatusDead   = "Dead"

	SexMale   = "Male"
	SexFemale = "Female"

	SourcePurchased = "Purchased"
	SourceBorn      = "Born on farm"

	ReminderPending  = "Pending"
	ReminderNotified = "Notified"
	ReminderDone     = "Done"
)

var paymentMethods = []string{"Cash", "Mobile Money", "Bank", "Credit"}

var registry = map[string]models.Schema{}

var order []string

func register(s models.Schema) {
	if s.Collection == "" {
		s.Collection = s.Module
	}
	registry[s.Module] = s
	order = append(order, s.Module)
}

// Lookup returns the schema of a module.
func Lookup(module string) (models.Schema, bool) {
	s, ok := registry[module]
	return s, ok
}

// All returns every schema in declaration order.
func All() []models.Schema {
	out := make([]models.Schema, 0, len(order))
	for _, name := range order {
		out = append(out, registry[name])
	}
	return out
}

// ForProject returns the schemas shown as tabs of a project.
func ForProject(project string) []models.Schema {
	var out []models.Schema
	for _, s := range All() {
		if s.Project == project {
			out = append(out, s)
		}
	}
	return out
}

// Projects lists project names, sorted.
func Projects() []string {
	seen := map[string]struct{}{}
	var out []string
	for _, s := range All() {
		if _, ok := seen[s.Project]; ok {
			continue
		}
		seen[s.Project] = struct{}{}
		out = append(out, s.Project)
	}
	sort.Strings(out)
	return out
}

func init() {
	register(models.Schema{
		Module:   Goats,
		Title:    "Goats",
		Project:  ProjectBreeding,
		IDField:  "goat_id",
		IDPrefix: "GT",
		Fields: []models.Field{
			{Name: "goat_id", Label: "Goat ID", Kind: models.KindText, Required: true, Listed: true},
			{Name: "name", Label: "Name", Kind: models.KindText, Listed: true},
			{Name: "breed", Label: "Breed", Kind: models.KindText, Required: true, Listed: true},
			{Name: "sex", Label: "Sex", Kind: models.KindEnum, Required: true, Options: []string{SexMale, SexFemale}, Listed: true},
			{Name: "date_of_birth", Label: "Date of birth", Kind: models.KindDate, Required: true, Listed: true},
			{Name: "source", Label: "Source", Kind: models.KindEnum, Options: []string{SourceBorn, SourcePurchased}},
			{Name: "acquisition_date", Label: "Acquisition date", Kind: models.KindDate},
			{Name: "mother_id", Label: "Mother", Kind: models.KindRef, Ref: Goats},
			{Name: "father_id", Label: "Father", Kind: models.KindRef, Ref: Goats},
			{Name: "birth_weight", Label: "Birth weight (kg)", Kind: models.KindNumber},
			{Name: "weaning_weight", Label: "Weaning weight (kg)", Kind: models.KindNumber},
			{Name: "status", Label: "Status", Kind: models.KindEnum, Required: true, Options: []string{StatusActive, StatusSold, StatusDead}, Listed: true},
			{Name: "exit_date", Label: "Exit date", Kind: models.KindDate},
			{Name: "photo", Label: "Photo", Kind: models.KindImage},
			{Name: "notes", Label: "Notes", Kind: models.KindText},
		},
		Details: []models.Computed{
			{Name: "age", Label: "Age", Compute: derive.AgeOf},
			{Name: "weight_gain", Label: "Weight gain", Compute: derive.WeightGainOf},
		},
		Badges:       []models.BadgeRule{badge.Rule("status", badge.GoatStatus)},
		SearchFields: []string{"goat_id", "name", "breed", "status"},
		GroupBy:      "status",
		DateField:    "date_of_birth",
		Photo:        "photo",
	})

	register(models.Schema{
		Module:   Breeding,
		Title:    "Breeding",
		Project:  ProjectBreeding,
		IDField:  "breeding_id",
		IDPrefix: "BR",
		Fields: []models.Field{
			{Name: "breeding_id", Label: "Breeding ID", Kind: models.KindText, Listed: true},
			{Name: "doe_id", Label: "Doe", Kind: models.KindRef, Ref: Goats, Required: true, Listed: true},
			{Name: "buck_id", Label: "Buck", Kind: models.KindRef, Ref: Goats, Listed: true},
			{Name: "mating_time", Label: "Mating time", Kind: models.KindDateTime, Required: true, Listed: true},
			{Name: "breeding_method", Label: "Method", Kind: models.KindEnum, Options: []string{"Natural", "Artificial insemination"}},
			{Name: "expected_kidding_date", Label: "Expected kidding", Kind: models.KindDate, Listed: true},
			{Name: "actual_kidding_date", Label: "Actual kidding", Kind: models.KindDate},
			{Name: "kids_born", Label: "Kids born", Kind: models.KindNumber},
			{Name: "status", Label: "Status", Kind: models.KindText, Listed: true},
			{Name: "notes", Label: "Notes", Kind: models.KindText},
		},
		Details: []models.Computed{
			{Name: "gestation_days", Label: "Gestation", Compute: derive.GestationOf},
			{Name: "days_to_kidding", Label: "Kidding due", Compute: derive.DueOf("expected_kidding_date")},
		},
		Badges:       []models.BadgeRule{badge.Rule("status", badge.BreedingStatus)},
		SearchFields: []string{"breeding_id", "doe_id", "buck_id", "status"},
		GroupBy:      "status",
		SumFields:    []string{"kids_born"},
		DateField:    "mating_time",
		Reminders:    true,
	})

	register(models.Schema{
		Module:   Health,
		Title:    "Health",
		Project:  ProjectBreeding,
		IDField:  "health_id",
		IDPrefix: "HL",
		Fields: []models.Field{
			{Name: "health_id", Label: "Health ID", Kind: models.KindText, Listed: true},
			{Name: "goat_id", Label: "Goat", Kind: models.KindRef, Ref: Goats, Required: true, Listed: true},
			{Name: "date", Label: "Date", Kind: models.KindDate, Required: true, Listed: true},
			{Name: "condition", Label: "Condition / symptoms", Kind: models.KindText, Required: true, Listed: true},
			{Name: "diagnosis", Label: "Diagnosis", Kind: models.KindText},
			{Name: "treatment", Label: "Treatment", Kind: models.KindText},
			{Name: "medication", Label: "Medication", Kind: models.KindText},
			{Name: "administered_by", Label: "Administered by", Kind: models.KindText},
			{Name: "cost_ugx", Label: "Cost (UGX)", Kind: models.KindNumber},
			{Name: "recovery_status", Label: "Recovery status", Kind: models.KindText, Listed: true},
			{Name: "notes", Label: "Notes", Kind: models.KindText},
		},
		Badges:       []models.BadgeRule{badge.Rule("recovery_status", badge.RecoveryStatus)},
		SearchFields: []string{"health_id", "goat_id", "condition", "diagnosis", "recovery_status"},
		GroupBy:      "recovery_status",
		SumFields:    []string{"cost_ugx"},
		DateField:    "date",
		Reminders:    true,
	})

	register(models.Schema{
		Module:   Vaccinations,
		Title:    "Vaccinations",
		Project:  ProjectBreeding,
		IDField:  "vaccination_id",
		IDPrefix: "VC",
		Fields: []models.Field{
			{Name: "vaccination_id", Label: "Vaccination ID", Kind: models.KindText, Listed: true},
			{Name: "goat_id", Label: "Goat", Kind: models.KindRef, Ref: Goats, Required: true, Listed: true},
			{Name: "vaccine_name", Label: "Vaccine", Kind: models.KindText, Required: true, Listed: true},
			{Name: "date_administered", Label: "Date administered", Kind: models.KindDate, Required: true, Listed: true},
			{Name: "dosage", Label: "Dosage", Kind: models.KindText},
			{Name: "administered_by", Label: "Administered by", Kind: models.KindText},
			{Name: "next_due_date", Label: "Next due", Kind: models.KindDate, Listed: true},
			{Name: "cost_ugx", Label: "Cost (UGX)", Kind: models.KindNumber},
			{Name: "notes", Label: "Notes", Kind: models.KindText},
		},
		Details: []models.Computed{
			{Name: "due_status", Label: "Next dose", Compute: derive.DueOf("next_due_date")},
		},
		SearchFields: []string{"vaccination_id", "goat_id", "vaccine_name"},
		GroupBy:      "vaccine_name",
		SumFields:    []string{"cost_ugx"},
		DateField:    "date_administered",
		Reminders:    true,
	})

	register(models.Schema{
		Module:   Feeding,
		Title:    "Feeding",
		Project:  ProjectBreeding,
		IDField:  "feeding_id",
		IDPrefix: "FD",
		Fields: []models.Field{
			{Name: "feeding_id", Label: "Feeding ID", Kind: models.KindText, Listed: true},
			{Name: "date", Label: "Date", Kind: models.KindDate, Required: true, Listed: true},
			{Name: "feed_type", Label: "Feed type", Kind: models.KindText, Required: true, Listed: true},
			{Name: "quantity_kg", Label: "Quantity (kg)", Kind: models.KindNumber, Required: true, Listed: true},
			{Name: "goat_group", Label: "Group", Kind: models.KindText, Listed: true},
			{Name: "weight_gain_kg", Label: "Weight gain (kg)", Kind: models.KindNumber},
			{Name: "cost_ugx", Label: "Cost (UGX)", Kind: models.KindNumber},
			{Name: "notes", Label: "Notes", Kind: models.KindText},
		},
		Details: []models.Computed{
			{Name: "feed_conversion_ratio", Label: "Feed conversion ratio", Compute: derive.FeedConversionOf},
		},
		SearchFields: []string{"feeding_id", "feed_type", "goat_group"},
		GroupBy:      "feed_type",
		SumFields:    []string{"quantity_kg", "cost_ugx"},
		DateField:    "date",
	})

	register(models.Schema{
		Module:   SalesBreeding,
		Title:    "Breeding stock sales",
		Project:  ProjectBreeding,
		IDField:  "sale_id",
		IDPrefix: "SB",
		Fields: []models.Field{
			{Name: "sale_id", Label: "Sale ID", Kind: models.KindText, Listed: true},
			{Name: "goat_id", Label: "Goat", Kind: models.KindRef, Ref: Goats, Required: true, Listed: true},
			{Name: "sale_date", Label: "Sale date", Kind: models.KindDate, Required: true, Listed: true},
			{Name: "buyer_name", Label: "Buyer", Kind: models.KindText, Required: true, Listed: true},
			{Name: "buyer_contact", Label: "Buyer contact", Kind: models.KindText},
			{Name: "price_ugx", Label: "Price (UGX)", Kind: models.KindNumber, Required: true, Listed: true},
			{Name: "payment_method", Label: "Payment method", Kind: models.KindEnum, Options: paymentMethods, Listed: true},
			{Name: "notes", Label: "Notes", Kind: models.KindText},
		},
		Badges:       []models.BadgeRule{badge.Rule("payment_method", badge.PaymentMethod)},
		SearchFields: []string{"sale_id", "goat_id", "buyer_name"},
		GroupBy:      "payment_method",
		SumFields:    []string{"price_ugx"},
		DateField:    "sale_date",
	})

	register(models.Schema{
		Module:   SalesMeat,
		Title:    "Meat sales",
		Project:  ProjectBreeding,
		IDField:  "sale_id",
		IDPrefix: "SM",
		Fields: []models.Field{
			{Name: "sale_id", Label: "Sale ID", Kind: models.KindText, Listed: true},
			{Name: "goat_id", Label: "Goat", Kind: models.KindRef, Ref: Goats, Required: true, Listed: true},
			{Name: "sale_date", Label: "Sale date", Kind: models.KindDate, Required: true, Listed: true},
			{Name: "buyer_name", Label: "Buyer", Kind: models.KindText, Listed: true},
			{Name: "live_weight", Label: "Live weight (kg)", Kind: models.KindNumber, Required: true, Listed: true},
			{Name: "price_per_kg", Label: "Price per kg (UGX)", Kind: models.KindNumber, Required: true},
			{Name: "payment_method", Label: "Payment method", Kind: models.KindEnum, Options: paymentMethods},
			{Name: "notes", Label: "Notes", Kind: models.KindText},
		},
		FormComputed: []models.Computed{
			{Name: "total_price", Label: "Total price (UGX)", Compute: derive.TotalPriceOf},
		},
		Details: []models.Computed{
			{Name: "total_price", Label: "Total price (UGX)", Compute: derive.OrNotAvailable(derive.TotalPriceOf)},
		},
		Badges:       []models.BadgeRule{badge.Rule("payment_method", badge.PaymentMethod)},
		SearchFields: []string{"sale_id", "goat_id", "buyer_name"},
		GroupBy:      "payment_method",
		SumFields:    []string{"live_weight", "total_price"},
		DateField:    "sale_date",
	})

	register(models.Schema{
		Module:   Expenses,
		Title:    "Expenses",
		Project:  ProjectBreeding,
		IDField:  "expense_id",
		IDPrefix: "EX",
		Fields: []models.Field{
			{Name: "expense_id", Label: "Expense ID", Kind: models.KindText, Listed: true},
			{Name: "date", Label: "Date", Kind: models.KindDate, Required: true, Listed: true},
			{Name: "category", Label: "Category", Kind: models.KindText, Required: true, Listed: true},
			{Name: "description", Label: "Description", Kind: models.KindText, Required: true, Listed: true},
			{Name: "amount_ugx", Label: "Amount (UGX)", Kind: models.KindNumber, Required: true, Listed: true},
			{Name: "payment_method", Label: "Payment method", Kind: models.KindEnum, Options: paymentMethods, Listed: true},
			{Name: "paid_to", Label: "Paid to", Kind: models.KindText},
			{Name: "notes", Label: "Notes", Kind: models.KindText},
		},
		Badges: []models.BadgeRule{
			badge.Rule("category", badge.ExpenseCategory),
			badge.Rule("payment_method", badge.PaymentMethod),
		},
		SearchFields: []string{"expense_id", "category", "description", "paid_to"},
		GroupBy:      "category",
		SumFields:    []string{"amount_ugx"},
		DateField:    "date",
	})

	register(models.Schema{
		Module:   MonthlySummaries,
		Title:    "Monthly summaries",
		Project:  ProjectBreeding,
		IDField:  "summary_id",
		IDPrefix: "MS",
		Fields: []models.Field{
			{Name: "summary_id", Label: "Summary ID", Kind: models.KindText, Listed: true},
			{Name: "month", Label: "Month", Kind: models.KindMonth, Required: true, Listed: true},
			{Name: "opening_goats", Label: "Opening goats", Kind: models.KindNumber, Required: true, Listed: true},
			{Name: "births", Label: "Births", Kind: models.KindNumber},
			{Name: "purchases", Label: "Purchases", Kind: models.KindNumber},
			{Name: "deaths", Label: "Deaths", Kind: models.KindNumber},
			{Name: "sold_breeding", Label: "Sold for breeding", Kind: models.KindNumber},
			{Name: "sold_meat", Label: "Sold for meat", Kind: models.KindNumber},
			{Name: "total_income_ugx", Label: "Total income (UGX)", Kind: models.KindNumber, Listed: true},
			{Name: "total_expenses_ugx", Label: "Total expenses (UGX)", Kind: models.KindNumber, Listed: true},
			{Name: "notes", Label: "Notes", Kind: models.KindText},
		},
		FormComputed: []models.Computed{
			{Name: "closing_goats", Label: "Closing goats", Compute: derive.ClosingGoatsOf},
			{Name: "net_profit_ugx", Label: "Net profit (UGX)", Compute: derive.NetProfitOf},
		},
		Details: []models.Computed{
			{Name: "closing_goats", Label: "Closing goats", Compute: derive.ClosingGoatsOf},
			{Name: "net_profit_ugx", Label: "Net profit (UGX)", Compute: derive.NetProfitOf},
		},
		SearchFields: []string{"summary_id", "month", "notes"},
		SumFields:    []string{"total_income_ugx", "total_expenses_ugx"},
		DateField:    "month",
	})

	register(models.Schema{
		Module:   Coffee,
		Title:    "Coffee",
		Project:  ProjectCoffee,
		IDField:  "coffee_id",
		IDPrefix: "CF",
		Fields: []models.Field{
			{Name: "coffee_id", Label: "Record ID", Kind: models.KindText, Listed: true},
			{Name: "date", Label: "Date", Kind: models.KindDate, Required: true, Listed: true},
			{Name: "activity", Label: "Activity", Kind: models.KindText, Required: true, Listed: true},
			{Name: "plot", Label: "Plot", Kind: models.KindText, Listed: true},
			{Name: "quantity_kg", Label: "Quantity (kg)", Kind: models.KindNumber, Listed: true},
			{Name: "amount_ugx", Label: "Amount (UGX)", Kind: models.KindNumber, Listed: true},
			{Name: "workers", Label: "Workers", Kind: models.KindNumber},
			{Name: "notes", Label: "Notes", Kind: models.KindText},
		},
		Badges:       []models.BadgeRule{badge.Rule("activity", badge.CropActivity)},
		SearchFields: []string{"coffee_id", "activity", "plot", "notes"},
		GroupBy:      "activity",
		SumFields:    []string{"quantity_kg", "amount_ugx"},
		DateField:    "date",
	})

	register(models.Schema{
		Module:   Matooke,
		Title:    "Matooke",
		Project:  ProjectMatooke,
		IDField:  "matooke_id",
		IDPrefix: "MT",
		Fields: []models.Field{
			{Name: "matooke_id", Label: "Record ID", Kind: models.KindText, Listed: true},
			{Name: "date", Label: "Date", Kind: models.KindDate, Required: true, Listed: true},
			{Name: "activity", Label: "Activity", Kind: models.KindText, Required: true, Listed: true},
			{Name: "plot", Label: "Plot", Kind: models.KindText, Listed: true},
			{Name: "bunches", Label: "Bunches", Kind: models.KindNumber, Listed: true},
			{Name: "amount_ugx", Label: "Amount (UGX)", Kind: models.KindNumber, Listed: true},
			{Name: "notes", Label: "Notes", Kind: models.KindText},
		},
		Badges:       []models.BadgeRule{badge.Rule("activity", badge.CropActivity)},
		SearchFields: []string{"matooke_id", "activity", "plot", "notes"},
		GroupBy:      "activity",
		SumFields:    []string{"bunches", "amount_ugx"},
		DateField:    "date",
	})

	register(models.Schema{
		Module:   Notifications,
		Title:    "Notifications",
		Project:  ProjectAdmin,
		IDField:  "notification_id",
		IDPrefix: "NT",
		Fields: []models.Field{
			{Name: "notification_id", Label: "Notification ID", Kind: models.KindText},
			{Name: "title", Label: "Title", Kind: models.KindText, Required: true, Listed: true},
			{Name: "message", Label: "Message", Kind: models.KindText, Required: true, Listed: true},
			{Name: "type", Label: "Type", Kind: models.KindEnum, Options: []string{"info", "reminder", "warning", "alert"}, Listed: true},
			{Name: "related_module", Label: "Module", Kind: models.KindText},
			{Name: "related_id", Label: "Record", Kind: models.KindText},
			{Name: "is_read", Label: "Read", Kind: models.KindBool, Listed: true},
			{Name: "created_at", Label: "Created", Kind: models.KindDateTime, Listed: true},
		},
		Badges:       []models.BadgeRule{badge.Rule("type", badge.NotificationType)},
		SearchFields: []string{"title", "message"},
		GroupBy:      "type",
		DateField:    "created_at",
	})

	register(models.Schema{
		Module:   Reminders,
		Title:    "Reminders",
		Project:  ProjectAdmin,
		IDField:  "reminder_id",
		IDPrefix: "RM",
		Fields: []models.Field{
			{Name: "reminder_id", Label: "Reminder ID", Kind: models.KindText},
			{Name: "title", Label: "Title", Kind: models.KindText, Required: true, Listed: true},
			{Name: "description", Label: "Description", Kind: models.KindText, Listed: true},
			{Name: "reminder_date", Label: "Date", Kind: models.KindDate, Required: true, Listed: true},
			{Name: "related_module", Label: "Module", Kind: models.KindText},
			{Name: "related_id", Label: "Record", Kind: models.KindText},
			{Name: "status", Label: "Status", Kind: models.KindEnum, Options: []string{ReminderPending, ReminderNotified, ReminderDone}, Listed: true},
		},
		Details: []models.Computed{
			{Name: "due_status", Label: "Due", Compute: derive.DueOf("reminder_date")},
		},
		Badges:       []models.BadgeRule{badge.Rule("status", badge.ReminderStatus)},
		SearchFields: []string{"title", "description", "related_id"},
		GroupBy:      "status",
		DateField:    "reminder_date",
	})
}
