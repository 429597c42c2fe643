package locale

import (
	"fmt"
	"time"
)

// Messages 为单个语言的界面文案，每个语言一份结构体字面量，不按字符串键查找。
type Messages struct {
	Posts             string
	Projects          string
	BackToPosts       string
	BackToProjects    string
	NotFoundTitle     string
	NotFoundBody      string
	NoResults         string
	NoResultsHint     string
	ClearFilters      string
	TranslationStatus string
	TranslationIntro  string
	Complete          string
	FallbackNotice    string
	Showing           string // "Showing %d-%d of %d"
	Months            [12]string
	dayFirst          bool
}

var (
	messagesEN = Messages{
		Posts:             "Posts",
		Projects:          "Projects",
		BackToPosts:       "Back to posts",
		BackToProjects:    "Back to projects",
		NotFoundTitle:     "Page not found",
		NotFoundBody:      "The page you are looking for does not exist.",
		NoResults:         "No results found.",
		NoResultsHint:     "Try adjusting your filters to see more results.",
		ClearFilters:      "Clear filters",
		TranslationStatus: "Translation Status",
		TranslationIntro:  "Track the progress of translations across all supported languages.",
		Complete:          "Complete",
		FallbackNotice:    "This content is not yet available in your language.",
		Showing:           "Showing %d-%d of %d",
		Months: [12]string{"January", "February", "March", "April", "May", "June",
			"July", "August", "September", "October", "November", "December"},
	}
	messagesIT = Messages{
		Posts:             "Articoli",
		Projects:          "Progetti",
		BackToPosts:       "Torna agli articoli",
		BackToProjects:    "Torna ai progetti",
		NotFoundTitle:     "Pagina non trovata",
		NotFoundBody:      "La pagina che stai cercando non esiste.",
		NoResults:         "Nessun risultato.",
		NoResultsHint:     "Prova a modificare i filtri per vedere altri risultati.",
		ClearFilters:      "Cancella filtri",
		TranslationStatus: "Stato delle traduzioni",
		TranslationIntro:  "Segui l'avanzamento delle traduzioni in tutte le lingue supportate.",
		Complete:          "Completo",
		FallbackNotice:    "Questo contenuto non è ancora disponibile nella tua lingua.",
		Showing:           "Visualizzati %d-%d di %d",
		Months: [12]string{"gennaio", "febbraio", "marzo", "aprile", "maggio", "giugno",
			"luglio", "agosto", "settembre", "ottobre", "novembre", "dicembre"},
		dayFirst: true,
	}
	messagesFR = Messages{
		Posts:             "Articles",
		Projects:          "Projets",
		BackToPosts:       "Retour aux articles",
		BackToProjects:    "Retour aux projets",
		NotFoundTitle:     "Page introuvable",
		NotFoundBody:      "La page que vous cherchez n'existe pas.",
		NoResults:         "Aucun résultat.",
		NoResultsHint:     "Essayez d'ajuster vos filtres pour voir plus de résultats.",
		ClearFilters:      "Effacer les filtres",
		TranslationStatus: "État des traductions",
		TranslationIntro:  "Suivez l'avancement des traductions dans toutes les langues prises en charge.",
		Complete:          "Terminé",
		FallbackNotice:    "Ce contenu n'est pas encore disponible dans votre langue.",
		Showing:           "Affichage %d-%d sur %d",
		Months: [12]string{"janvier", "février", "mars", "avril", "mai", "juin",
			"juillet", "août", "septembre", "octobre", "novembre", "décembre"},
		dayFirst: true,
	}
)

// Messages 返回该语言的文案；未知语言使用参考语言文案。
func (l Locale) Messages() Messages {
	switch l {
	case IT:
		return messagesIT
	case FR:
		return messagesFR
	}
	return messagesEN
}

// FormatDate 按语言习惯格式化日期（en: January 2, 2006；it/fr: 2 gennaio 2006）。
// 零值时间返回空串。
func (l Locale) FormatDate(t time.Time) string {
	if t.IsZero() || t.Unix() == 0 {
		return ""
	}
	m := l.Messages()
	month := m.Months[t.Month()-1]
	if m.dayFirst {
		return fmt.Sprintf("%d %s %d", t.Day(), month, t.Year())
	}
	return fmt.Sprintf("%s %d, %d", month, t.Day(), t.Year())
}
