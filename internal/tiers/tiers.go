// Package tiers содержит статическую таблицу тарифов и чистые функции
// квотной политики. Таблица неизменяема во время работы приложения.
package tiers

// Названия тарифов. Хранятся в users.tier как есть.
const (
	Free   = "Free"
	Silver = "Silver"
	Gold   = "Gold"
)

// Policy описывает ограничения и цену одного тарифа.
type Policy struct {
	PriceCents     int // Цена за месяц в центах, 0 для бесплатного тарифа
	MaxDailyUpdate int // Максимум обновлений станции в сутки
	MaxFilesizeKB  int // Максимальный размер микса в килобайтах
}

// table — единственный источник правды по тарифам.
var table = map[string]Policy{
	Free:   {PriceCents: 0, MaxDailyUpdate: 1, MaxFilesizeKB: 50_000},
	Silver: {PriceCents: 300, MaxDailyUpdate: 5, MaxFilesizeKB: 600_000},
	Gold:   {PriceCents: 700, MaxDailyUpdate: 24, MaxFilesizeKB: 3_000_000},
}

// Lookup возвращает политику тарифа. Неизвестный тариф трактуется как Free:
// владелец станции мог быть удалён, страница при этом остаётся доступной.
func Lookup(tier string) Policy {
	if p, ok := table[tier]; ok {
		return p
	}
	return table[Free]
}

// IsPaid сообщает, требует ли тариф оплаты.
func IsPaid(tier string) bool {
	return Lookup(tier).PriceCents > 0
}

// IsKnown сообщает, существует ли такой тариф в таблице.
func IsKnown(tier string) bool {
	_, ok := table[tier]
	return ok
}

// Remaining возвращает остаток суточной квоты обновлений, никогда не
// отрицательный.
func Remaining(tier string, updatesUsed int) int {
	left := Lookup(tier).MaxDailyUpdate - updatesUsed
	if left < 0 {
		return 0
	}
	return left
}

// MaxFilesizeKB возвращает лимит размера микса для тарифа в килобайтах.
func MaxFilesizeKB(tier string) int {
	return Lookup(tier).MaxFilesizeKB
}

// PriceCents возвращает месячную цену тарифа в центах.
func PriceCents(tier string) int {
	return Lookup(tier).PriceCents
}
