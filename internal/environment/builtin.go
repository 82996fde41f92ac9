package environment

const (
	TerrainGrassland = "grassland"
	TerrainBarrens   = "barrens"
	TerrainScrub     = "scrub"
	TerrainForest    = "forest"
	TerrainHills     = "hills"
	TerrainDesert    = "desert"
	TerrainJungle    = "jungle"
	TerrainMountains = "mountains"
	TerrainSwamp     = "swamp"
	TerrainRiver     = "river"
	TerrainSea       = "sea"

	RoadHighway = "highway"
	RoadRoad    = "road"
	RoadTrail   = "trail"

	WeatherRain      = "rain"
	WeatherHeavyRain = "heavy_rain"
	WeatherFog       = "fog"
	WeatherSnow      = "snow"
	WeatherBlizzard  = "blizzard"
	WeatherStorm     = "storm"

	VesselRowboat     = "rowboat"
	VesselRiverBarge  = "river_barge"
	VesselSailingShip = "sailing_ship"
	VesselGalley      = "galley"
	VesselMerchantCog = "merchant_cog"
)

func openEvasion(small, medium, large, huge int) []EvasionBracket {
	return []EvasionBracket{
		{MaxPartySize: 4, Difficulty: small},
		{MaxPartySize: 12, Difficulty: medium},
		{MaxPartySize: 24, Difficulty: large},
		{MaxPartySize: 0, Difficulty: huge},
	}
}

func BuiltinTerrain() []TerrainDescriptor {
	return []TerrainDescriptor{
		{Key: TerrainGrassland, Name: "Grassland", Layer: LayerLand, MovementMultiplier: 1, NavigationDifficulty: 6, EncounterDistance: "4d6*10", Evasion: openEvasion(11, 14, 17, 20), Aliases: []string{"clear", "plains"}},
		{Key: TerrainBarrens, Name: "Barrens", Layer: LayerLand, MovementMultiplier: 1, NavigationDifficulty: 8, EncounterDistance: "4d6*10", Evasion: openEvasion(11, 14, 17, 20)},
		{Key: TerrainScrub, Name: "Scrubland", Layer: LayerLand, MovementMultiplier: 2.0 / 3.0, NavigationDifficulty: 8, EncounterDistance: "3d6*10", Evasion: openEvasion(10, 13, 16, 19), Aliases: []string{"scrubland", "brush"}},
		{Key: TerrainForest, Name: "Forest", Layer: LayerLand, MovementMultiplier: 2.0 / 3.0, NavigationDifficulty: 10, EncounterDistance: "2d6*10", Evasion: openEvasion(8, 11, 14, 17), Aliases: []string{"woods"}},
		{Key: TerrainHills, Name: "Hills", Layer: LayerLand, MovementMultiplier: 2.0 / 3.0, NavigationDifficulty: 8, EncounterDistance: "3d6*10", Evasion: openEvasion(9, 12, 15, 18)},
		{Key: TerrainDesert, Name: "Desert", Layer: LayerLand, MovementMultiplier: 2.0 / 3.0, NavigationDifficulty: 12, EncounterDistance: "4d6*10", Evasion: openEvasion(12, 15, 18, 20), Aliases: []string{"dunes"}},
		{Key: TerrainJungle, Name: "Jungle", Layer: LayerLand, MovementMultiplier: 0.5, NavigationDifficulty: 14, EncounterDistance: "1d6*10", Evasion: openEvasion(7, 10, 13, 16)},
		{Key: TerrainMountains, Name: "Mountains", Layer: LayerLand, MovementMultiplier: 0.5, NavigationDifficulty: 12, EncounterDistance: "4d6*10", Evasion: openEvasion(9, 12, 15, 18), Aliases: []string{"mountain"}},
		{Key: TerrainSwamp, Name: "Swamp", Layer: LayerLand, MovementMultiplier: 0.5, NavigationDifficulty: 13, EncounterDistance: "2d6*10", Evasion: openEvasion(8, 11, 14, 17), Aliases: []string{"marsh", "bog"}},
		{Key: TerrainRiver, Name: "River", Layer: LayerWater, MovementMultiplier: 1, NavigationDifficulty: 4, EncounterDistance: "4d6*10", Evasion: openEvasion(12, 15, 18, 20)},
		{Key: TerrainSea, Name: "Open Sea", Layer: LayerWater, MovementMultiplier: 1, NavigationDifficulty: 10, EncounterDistance: "4d6*100", Evasion: openEvasion(10, 12, 14, 16), Aliases: []string{"ocean", "open_sea"}},
	}
}

func BuiltinRoads() []RoadDescriptor {
	return []RoadDescriptor{
		{Key: RoadHighway, Name: "Imperial Highway", SpeedMultiplier: 1.5, DrivingMultiplier: 2, IneffectiveWeather: []string{WeatherBlizzard}, Aliases: []string{"paved_road"}},
		{Key: RoadRoad, Name: "Road", SpeedMultiplier: 1.5, DrivingMultiplier: 1.75, IneffectiveWeather: []string{WeatherHeavyRain, WeatherBlizzard}},
		{Key: RoadTrail, Name: "Trail", SpeedMultiplier: 1.25, DrivingMultiplier: 1.25, IneffectiveWeather: []string{WeatherRain, WeatherHeavyRain, WeatherSnow, WeatherBlizzard, WeatherStorm}, Aliases: []string{"track", "path"}},
	}
}

func BuiltinWeather() []WeatherDescriptor {
	return []WeatherDescriptor{
		{Key: WeatherClear, Name: "Clear", Aliases: []string{"sunny", "fair"}},
		{Key: WeatherRain, Name: "Rain", MovementModifier: -1.0 / 3.0, NavigationModifier: 1},
		{Key: WeatherHeavyRain, Name: "Heavy Rain", MovementModifier: -0.5, NavigationModifier: 2, Aliases: []string{"downpour"}},
		{Key: WeatherFog, Name: "Fog", MovementModifier: -1.0 / 3.0, NavigationModifier: 4, Aliases: []string{"mist"}},
		{Key: WeatherSnow, Name: "Snow", MovementModifier: -0.5, NavigationModifier: 2},
		{Key: WeatherBlizzard, Name: "Blizzard", MovementModifier: -2.0 / 3.0, NavigationModifier: 6},
		{Key: WeatherStorm, Name: "Storm", MovementModifier: -0.5, NavigationModifier: 3, Aliases: []string{"gale"}},
	}
}

func BuiltinVessels() []VesselDescriptor {
	return []VesselDescriptor{
		{Key: VesselRowboat, Name: "Rowboat", Layer: LayerWater, ExpeditionSpeed: 18, WeatherAffected: true, CargoCapacity: 100},
		{Key: VesselRiverBarge, Name: "River Barge", Layer: LayerWater, ExpeditionSpeed: 24, WeatherAffected: false, CargoCapacity: 2500, Aliases: []string{"barge"}},
		{Key: VesselGalley, Name: "Galley", Layer: LayerWater, ExpeditionSpeed: 36, WeatherAffected: false, CargoCapacity: 4000},
		{Key: VesselSailingShip, Name: "Sailing Ship", Layer: LayerWater, ExpeditionSpeed: 72, WeatherAffected: true, CargoCapacity: 15000, Aliases: []string{"ship"}},
		{Key: VesselMerchantCog, Name: "Merchant Cog", Layer: LayerWater, ExpeditionSpeed: 48, WeatherAffected: true, CargoCapacity: 20000, Aliases: []string{"cog"}},
	}
}

// Builtin returns the default tables.
func Builtin() *Tables {
	t, err := NewTables(BuiltinTerrain(), BuiltinRoads(), BuiltinWeather(), BuiltinVessels())
	if err != nil {
		panic("environment: builtin tables invalid: " + err.Error())
	}
	return t
}
