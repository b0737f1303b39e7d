package geo

import "math"

// earthRadiusKm — радиус сферической модели Земли в километрах.
const earthRadiusKm = 6371

// HaversineKm возвращает расстояние по дуге большого круга между двумя
// точками в километрах. Та же формула зашита в SQL поиска исполнителей,
// функция используется для проверки результатов и для подсчёта расстояния
// на стороне приложения.
func HaversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := lat1 * math.Pi / 180
	lon1Rad := lon1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	lon2Rad := lon2 * math.Pi / 180

	deltaLat := lat2Rad - lat1Rad
	deltaLon := lon2Rad - lon1Rad

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLon/2)*math.Sin(deltaLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

// ValidCoordinates проверяет, что координаты попадают в допустимые диапазоны.
func ValidCoordinates(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}
