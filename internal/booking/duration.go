// Package booking содержит правила бронирования: расчёт оплачиваемых часов,
// проверку пересечения интервалов, применение ваучеров и переходы статусов заказа.
package booking

import "time"

const secondsPerDay = 24 * 60 * 60

// centiHours переводит длительность в сотые доли часа: 24*days + seconds/3600,
// округлённые до двух знаков. Доли секунды отбрасываются.
func centiHours(d time.Duration) int64 {
	if d <= 0 {
		return 0
	}
	total := int64(d / time.Second)
	days := total / secondsPerDay
	seconds := total % secondsPerDay

	return days*24*100 + (seconds*100+1800)/3600
}

// BillableHours возвращает количество оплачиваемых часов интервала с точностью до 0.01.
func BillableHours(start, end time.Time) float64 {
	return float64(centiHours(end.Sub(start))) / 100
}

// BaseCost возвращает стоимость аренды до скидки: оплачиваемые часы, умноженные на цену часа.
// Дробная часть результата отбрасывается.
func BaseCost(start, end time.Time, pricePerHour int64) int64 {
	return centiHours(end.Sub(start)) * pricePerHour / 100
}
