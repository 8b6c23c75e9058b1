// Package namepolicy реализует политику имён станций: нормализацию
// введённого имени в слаг и проверку его допустимости. Политика чистая,
// единственная зависимость — поиск станции в хранилище для проверки
// занятости имени другим владельцем.
package namepolicy

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	goaway "github.com/TwiN/go-away"

	"github.com/magabrotheeeer/radio-hosting/internal/models"
)

// Reason — итог проверки имени. Рабочий процесс публикации не различает
// причины отказа, но интерактивная проверка доступности показывает их
// пользователю по отдельности.
type Reason int

const (
	// ReasonOK — имя допустимо и свободно.
	ReasonOK Reason = iota
	// ReasonBadFormat — после нормализации имя не подходит под [A-Za-z0-9-]+.
	ReasonBadFormat
	// ReasonProfane — имя не прошло фильтр ненормативной лексики.
	ReasonProfane
	// ReasonReserved — имя совпадает с системным маршрутом или страницей.
	ReasonReserved
	// ReasonTaken — станция с таким именем принадлежит другому владельцу.
	ReasonTaken
)

// Message возвращает текст для интерактивной проверки доступности имени.
func (r Reason) Message() string {
	switch r {
	case ReasonBadFormat:
		return "Invalid name format. Only letters, numbers, and hyphens are allowed."
	case ReasonProfane:
		return "Station name contains inappropriate language. Please choose a different name."
	case ReasonReserved, ReasonTaken:
		return "This station name is already taken."
	default:
		return ""
	}
}

// validNameRegex допускает только латинские буквы, цифры и дефисы.
var validNameRegex = regexp.MustCompile(`^[a-zA-Z0-9-]+$`)

// whitespaceRegex — последовательности пробельных символов, заменяемые дефисом.
var whitespaceRegex = regexp.MustCompile(`\s+`)

// reservedStationNames — маршруты и статические страницы сайта,
// которые нельзя занять под станцию.
var reservedStationNames = map[string]struct{}{
	"login":                   {},
	"signup":                  {},
	"confirm":                 {},
	"manage-tier":             {},
	"account":                 {},
	"landing":                 {},
	"update-station":          {},
	"check-station-name":      {},
	"create-checkout-session": {},
	"payment-success":         {},
	"update-tier":             {},
	"logout":                  {},
	"demo":                    {},
	"whattheradio":            {},
	"privacy":                 {},
	"terms":                   {},
	"contact":                 {},
	"faq":                     {},
	"about":                   {},
	"support":                 {},
	"discover":                {},
	"search":                  {},
	"admin":                   {},
}

// StationFinder ищет станцию по имени. Возвращает nil без ошибки,
// если станции нет.
type StationFinder interface {
	GetStationByName(ctx context.Context, name string) (*models.Station, error)
}

// Policy проверяет имена станций.
type Policy struct {
	stations StationFinder
}

// New создает новый экземпляр Policy.
func New(stations StationFinder) *Policy {
	return &Policy{stations: stations}
}

// Normalize приводит сырое имя к слагу: обрезает пробелы по краям,
// заменяет внутренние последовательности пробелов одиночным дефисом
// и переводит в нижний регистр.
func Normalize(raw string) string {
	name := strings.TrimSpace(raw)
	name = whitespaceRegex.ReplaceAllString(name, "-")
	return strings.ToLower(name)
}

// Validate нормализует имя и прогоняет его через все проверки политики.
// Порядок фиксирован: формат, лексика, зарезервированные имена, занятость.
// Первая сработавшая проверка определяет Reason. Имя, занятое самим
// запрашивающим, считается свободным — владелец переименовывает свою станцию.
func (p *Policy) Validate(ctx context.Context, raw, requestingEmail string) (string, Reason, error) {
	const op = "namepolicy.Validate"

	name := Normalize(raw)

	if !validNameRegex.MatchString(name) {
		return name, ReasonBadFormat, nil
	}
	if goaway.IsProfane(name) {
		return name, ReasonProfane, nil
	}
	if _, ok := reservedStationNames[name]; ok {
		return name, ReasonReserved, nil
	}

	existing, err := p.stations.GetStationByName(ctx, name)
	if err != nil {
		return name, ReasonOK, fmt.Errorf("%s: %w", op, err)
	}
	if existing != nil && existing.Email != requestingEmail {
		return name, ReasonTaken, nil
	}
	return name, ReasonOK, nil
}
