package i18n

// Locale identifies one of the two supported languages.
type Locale string

// Supported locales. Hebrew is the household default.
const (
	English Locale = "en"
	Hebrew  Locale = "he"
)

// CookieName is the cookie carrying the persisted locale choice.
const CookieName = "NEXT_LOCALE"

// Dictionary holds every user-facing message for one locale.
type Dictionary struct {
	AppName        string
	AppDescription string

	ItemAddSuccess    string
	ItemAddFailed     string
	ItemEditSuccess   string
	ItemEditFailed    string
	ItemDeleteSuccess string
	ItemDeleteFailed  string

	SectionAddSuccess    string
	SectionAddFailed     string
	SectionEditSuccess   string
	SectionEditFailed    string
	SectionDeleteSuccess string
	SectionDeleteFailed  string

	CartUpdateSuccess string
	CartUpdateFailed  string
}

var dictionaries = map[Locale]Dictionary{
	English: {
		AppName:        "Shoppi",
		AppDescription: "Your shopping companion app",

		ItemAddSuccess:    "Item added",
		ItemAddFailed:     "Failed to add item",
		ItemEditSuccess:   "Item updated",
		ItemEditFailed:    "Failed to update item",
		ItemDeleteSuccess: "Item deleted",
		ItemDeleteFailed:  "Failed to delete item",

		SectionAddSuccess:    "Section added",
		SectionAddFailed:     "Failed to add section",
		SectionEditSuccess:   "Section updated",
		SectionEditFailed:    "Failed to update section",
		SectionDeleteSuccess: "Section deleted",
		SectionDeleteFailed:  "Failed to delete section",

		CartUpdateSuccess: "Cart updated",
		CartUpdateFailed:  "Failed to update cart",
	},
	Hebrew: {
		AppName:        "קניות-לי",
		AppDescription: "אפליקציית הקניות שלך",

		ItemAddSuccess:    "המוצר נוסף",
		ItemAddFailed:     "הוספת המוצר נכשלה",
		ItemEditSuccess:   "המוצר עודכן",
		ItemEditFailed:    "עדכון המוצר נכשל",
		ItemDeleteSuccess: "המוצר נמחק",
		ItemDeleteFailed:  "מחיקת המוצר נכשלה",

		SectionAddSuccess:    "המדור נוסף",
		SectionAddFailed:     "הוספת המדור נכשלה",
		SectionEditSuccess:   "המדור עודכן",
		SectionEditFailed:    "עדכון המדור נכשל",
		SectionDeleteSuccess: "המדור נמחק",
		SectionDeleteFailed:  "מחיקת המדור נכשלה",

		CartUpdateSuccess: "העגלה עודכנה",
		CartUpdateFailed:  "עדכון העגלה נכשל",
	},
}

// Parse maps a raw locale value to a supported Locale, falling back to
// Hebrew for anything unknown.
func Parse(raw string) Locale {
	if Locale(raw) == English {
		return English
	}
	return Hebrew
}

// For returns the dictionary of the given locale.
func For(locale Locale) Dictionary {
	if d, ok := dictionaries[locale]; ok {
		return d
	}
	return dictionaries[Hebrew]
}
