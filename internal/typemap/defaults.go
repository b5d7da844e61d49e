package typemap

// langMap holds translations for one type key, keyed by language code.
// Lookups fall back to "en" when the requested language is missing.
type langMap map[string]string

// deviceClassDefaults are the built-in translations for standard
// device classes and domains.
var deviceClassDefaults = map[string]langMap{
	// Sensors
	"temperature":     {"en": "Temperature", "de": "Temperatur", "es": "Temperatura", "fr": "Température"},
	"humidity":        {"en": "Humidity", "de": "Luftfeuchtigkeit", "es": "Humedad", "fr": "Humidité"},
	"battery":         {"en": "Battery", "de": "Batterie", "es": "Batería", "fr": "Batterie"},
	"illuminance":     {"en": "Illuminance", "de": "Helligkeit", "es": "Iluminancia", "fr": "Luminosité"},
	"power":           {"en": "Power", "de": "Leistung", "es": "Potencia", "fr": "Puissance"},
	"energy":          {"en": "Energy", "de": "Energie", "es": "Energía", "fr": "Énergie"},
	"voltage":         {"en": "Voltage", "de": "Spannung", "es": "Voltaje", "fr": "Tension"},
	"current":         {"en": "Current", "de": "Strom", "es": "Corriente", "fr": "Courant"},
	"pressure":        {"en": "Pressure", "de": "Druck", "es": "Presión", "fr": "Pression"},
	"co2":             {"en": "CO2", "de": "CO2", "es": "CO2", "fr": "CO2"},
	"pm25":            {"en": "PM2.5", "de": "PM2.5", "es": "PM2.5", "fr": "PM2.5"},
	"pm10":            {"en": "PM10", "de": "PM10", "es": "PM10", "fr": "PM10"},
	"signal_strength": {"en": "Signal Strength", "de": "Signalstärke", "es": "Intensidad de Señal", "fr": "Force du Signal"},
	"timestamp":       {"en": "Timestamp", "de": "Zeitstempel", "es": "Marca de Tiempo", "fr": "Horodatage"},
	"duration":        {"en": "Duration", "de": "Dauer", "es": "Duración", "fr": "Durée"},

	// Binary sensors
	"motion":       {"en": "Motion", "de": "Bewegung", "es": "Movimiento", "fr": "Mouvement"},
	"occupancy":    {"en": "Occupancy", "de": "Anwesenheit", "es": "Ocupación", "fr": "Occupation"},
	"door":         {"en": "Door", "de": "Tür", "es": "Puerta", "fr": "Porte"},
	"window":       {"en": "Window", "de": "Fenster", "es": "Ventana", "fr": "Fenêtre"},
	"smoke":        {"en": "Smoke", "de": "Rauch", "es": "Humo", "fr": "Fumée"},
	"moisture":     {"en": "Moisture", "de": "Feuchtigkeit", "es": "Humedad", "fr": "Humidité"},
	"connectivity": {"en": "Connectivity", "de": "Verbindung", "es": "Conectividad", "fr": "Connectivité"},
	"vibration":    {"en": "Vibration", "de": "Vibration", "es": "Vibración", "fr": "Vibration"},
	"problem":      {"en": "Problem", "de": "Problem", "es": "Problema", "fr": "Problème"},
	"safety":       {"en": "Safety", "de": "Sicherheit", "es": "Seguridad", "fr": "Sécurité"},
	"tamper":       {"en": "Tamper", "de": "Manipulation", "es": "Manipulación", "fr": "Sabotage"},
	"plug":         {"en": "Plug", "de": "Stecker", "es": "Enchufe", "fr": "Prise"},
	"presence":     {"en": "Presence", "de": "Präsenz", "es": "Presencia", "fr": "Présence"},
	"running":      {"en": "Running", "de": "Läuft", "es": "En Funcionamiento", "fr": "En Marche"},
	"lock":         {"en": "Lock", "de": "Schloss", "es": "Cerradura", "fr": "Verrou"},
	"opening":      {"en": "Opening", "de": "Öffnung", "es": "Apertura", "fr": "Ouverture"},
	"garage_door":  {"en": "Garage Door", "de": "Garagentor", "es": "Puerta de Garaje", "fr": "Porte de Garage"},

	// Domains
	"light":         {"en": "Light", "de": "Licht", "es": "Luz", "fr": "Lumière"},
	"switch":        {"en": "Switch", "de": "Schalter", "es": "Interruptor", "fr": "Interrupteur"},
	"climate":       {"en": "Climate", "de": "Klima", "es": "Clima", "fr": "Climatisation"},
	"cover":         {"en": "Cover", "de": "Abdeckung", "es": "Cubierta", "fr": "Couverture"},
	"fan":           {"en": "Fan", "de": "Ventilator", "es": "Ventilador", "fr": "Ventilateur"},
	"media_player":  {"en": "Media Player", "de": "Mediaplayer", "es": "Reproductor", "fr": "Lecteur Multimédia"},
	"sensor":        {"en": "Sensor", "de": "Sensor", "es": "Sensor", "fr": "Capteur"},
	"binary_sensor": {"en": "Binary Sensor", "de": "Binärsensor", "es": "Sensor Binario", "fr": "Capteur Binaire"},
	"button":        {"en": "Button", "de": "Taste", "es": "Botón", "fr": "Bouton"},
	"select":        {"en": "Select", "de": "Auswahl", "es": "Selección", "fr": "Sélection"},
	"number":        {"en": "Number", "de": "Zahl", "es": "Número", "fr": "Nombre"},
	"scene":         {"en": "Scene", "de": "Szene", "es": "Escena", "fr": "Scène"},
	"script":        {"en": "Script", "de": "Skript", "es": "Script", "fr": "Script"},
	"automation":    {"en": "Automation", "de": "Automatisierung", "es": "Automatización", "fr": "Automatisation"},
	"update":        {"en": "Update", "de": "Update", "es": "Actualización", "fr": "Mise à Jour"},
}

// integrationDefaults are translations for attributes specific to one
// integration. They outrank the device-class tables because the same
// key can mean different things per integration.
var integrationDefaults = map[string]map[string]langMap{
	"zigbee2mqtt": {
		"linkquality":         {"en": "Link Quality", "de": "Verbindungsqualität", "es": "Calidad de Enlace", "fr": "Qualité de Liaison"},
		"update_available":    {"en": "Update Available", "de": "Update verfügbar", "es": "Actualización Disponible", "fr": "Mise à Jour Disponible"},
		"occupancy_timeout":   {"en": "Occupancy Timeout", "de": "Anwesenheits-Timeout", "es": "Tiempo de Ocupación", "fr": "Délai d'Occupation"},
		"action":              {"en": "Action", "de": "Aktion", "es": "Acción", "fr": "Action"},
		"click":               {"en": "Click", "de": "Klick", "es": "Clic", "fr": "Clic"},
		"sensitivity":         {"en": "Sensitivity", "de": "Empfindlichkeit", "es": "Sensibilidad", "fr": "Sensibilité"},
		"led_indication":      {"en": "LED Indication", "de": "LED-Anzeige", "es": "Indicación LED", "fr": "Indication LED"},
		"power_outage_memory": {"en": "Power Outage Memory", "de": "Stromausfall-Speicher", "es": "Memoria de Corte de Energía", "fr": "Mémoire de Coupure"},
		"child_lock":          {"en": "Child Lock", "de": "Kindersicherung", "es": "Bloqueo Infantil", "fr": "Verrouillage Enfant"},
	},
	"hue": {
		"color_temp_startup": {"en": "Startup Color Temp", "de": "Start-Farbtemperatur", "es": "Temp. Color Inicio", "fr": "Temp. Couleur Démarrage"},
		"dynamics":           {"en": "Dynamics", "de": "Dynamik", "es": "Dinámica", "fr": "Dynamique"},
	},
	"esphome": {
		"wifi_signal": {"en": "WiFi Signal", "de": "WLAN-Signal", "es": "Señal WiFi", "fr": "Signal WiFi"},
		"uptime":      {"en": "Uptime", "de": "Betriebszeit", "es": "Tiempo Activo", "fr": "Temps de Fonctionnement"},
	},
}

// resolve picks the translation for the requested language, falling
// back to English and finally to the title-cased key.
func (m langMap) resolve(language, key string) string {
	if label, ok := m[language]; ok {
		return label
	}
	if label, ok := m["en"]; ok {
		return label
	}
	return TitleCase(key)
}
