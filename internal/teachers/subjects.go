package teachers

// DefaultSubjects holds the subject abbreviations used by the school's plan.
var DefaultSubjects = NewDirectory(map[string]string{
	"D":   "Deutsch",
	"M":   "Mathe",
	"E":   "Englisch",
	"F":   "Französisch",
	"L":   "Latein",
	"Sp":  "Sport",
	"Mu":  "Musik",
	"Ku":  "Kunst",
	"Bi":  "Biologie",
	"Ch":  "Chemie",
	"Ph":  "Physik",
	"Ge":  "Geschichte",
	"Ek":  "Erdkunde",
	"et":  "Ethik",
	"rel": "Religion",
	"Sk":  "Sozialkunde",
	"Inf": "Informatik",
	"Gr":  "Griechisch",
})

// MSS courses use course codes as subjects which collide with the abbreviations.
const skipSubjectsPrefix = "MSS"
