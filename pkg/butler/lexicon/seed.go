package lexicon

// Seed builds the built-in starter lexicon: the muscle-group map, a
// handful of everyday foods, and the trigger vocabulary for every
// intent. Deployments extend or replace it via LoadFromYAML and
// Store.AddFood / Store.AddExercise.
func Seed() *Snapshot {
	b := NewBuilder()

	foods := []FoodEntry{
		{Canonical: "quesadilla", Aliases: []string{"quesadillas"}, Attrs: FoodAttributes{Calories: 520, Protein: 22, Carbs: 40, Fat: 28, Fiber: 3, ServingSize: "1 quesadilla"}},
		{Canonical: "chicken breast", Aliases: []string{"grilled chicken breast"}, Attrs: FoodAttributes{Calories: 165, Protein: 31, Carbs: 0, Fat: 3.6, Fiber: 0, ServingSize: "100 g"}},
		{Canonical: "chicken", Aliases: []string{"chicken thigh"}, Attrs: FoodAttributes{Calories: 239, Protein: 27, Carbs: 0, Fat: 14, Fiber: 0, ServingSize: "100 g"}},
		{Canonical: "rice", Aliases: []string{"white rice", "brown rice"}, Attrs: FoodAttributes{Calories: 206, Protein: 4.3, Carbs: 45, Fat: 0.4, Fiber: 0.6, ServingSize: "1 cup"}},
		{Canonical: "protein shake", Aliases: []string{"shake", "protein smoothie"}, Attrs: FoodAttributes{Calories: 160, Protein: 30, Carbs: 5, Fat: 2, Fiber: 1, ServingSize: "1 scoop"}},
		{Canonical: "oatmeal", Aliases: []string{"oats"}, Attrs: FoodAttributes{Calories: 158, Protein: 6, Carbs: 27, Fat: 3.2, Fiber: 4, ServingSize: "1 cup"}},
		{Canonical: "apple", Aliases: []string{"apples"}, Attrs: FoodAttributes{Calories: 95, Protein: 0.5, Carbs: 25, Fat: 0.3, Fiber: 4.4, ServingSize: "1 medium"}},
		{Canonical: "banana", Aliases: []string{"bananas"}, Attrs: FoodAttributes{Calories: 105, Protein: 1.3, Carbs: 27, Fat: 0.4, Fiber: 3.1, ServingSize: "1 medium"}},
		{Canonical: "ice cream", Aliases: []string{"icecream"}, Attrs: FoodAttributes{Calories: 273, Protein: 4.6, Carbs: 31, Fat: 15, Fiber: 0.7, ServingSize: "1 cup"}},
	}
	for _, f := range foods {
		// Seed data is static; collisions here are programmer error.
		if err := b.AddFood(f); err != nil {
			panic(err)
		}
	}

	exercises := []ExerciseEntry{
		{Canonical: "chest", Aliases: []string{"pecs", "pectorals"}, Attrs: ExerciseAttributes{MuscleGroup: "chest"}},
		{Canonical: "back", Aliases: []string{"lats", "latissimus", "rhomboids"}, Attrs: ExerciseAttributes{MuscleGroup: "back"}},
		{Canonical: "legs", Aliases: []string{"quads", "hamstrings", "glutes", "calves"}, Attrs: ExerciseAttributes{MuscleGroup: "legs"}},
		{Canonical: "shoulders", Aliases: []string{"delts", "deltoids"}, Attrs: ExerciseAttributes{MuscleGroup: "shoulders"}},
		{Canonical: "arms", Aliases: []string{"biceps", "triceps", "bis", "tris"}, Attrs: ExerciseAttributes{MuscleGroup: "arms"}},
		{Canonical: "core", Aliases: []string{"abs", "abdominals"}, Attrs: ExerciseAttributes{MuscleGroup: "core"}},
		{Canonical: "bench press", Aliases: []string{"bench", "benched"}, Attrs: ExerciseAttributes{MuscleGroup: "chest"}},
		{Canonical: "squat", Aliases: []string{"squats", "squatted"}, Attrs: ExerciseAttributes{MuscleGroup: "legs"}},
		{Canonical: "deadlift", Aliases: []string{"deadlifts", "deadlifted"}, Attrs: ExerciseAttributes{MuscleGroup: "back"}},
		{Canonical: "pull ups", Aliases: []string{"pullups", "pull-ups"}, Attrs: ExerciseAttributes{MuscleGroup: "back"}},
		{Canonical: "cardio", Aliases: []string{"running", "treadmill"}, Attrs: ExerciseAttributes{MuscleGroup: "cardio"}},
	}
	for _, e := range exercises {
		if err := b.AddExercise(e); err != nil {
			panic(err)
		}
	}

	triggers := map[string]map[string]float64{
		"water": {
			"drank": 3, "drink": 2.5, "drinking": 2, "water": 2.5,
			"hydrated": 2, "sipped": 1.5, "bottle": 1.5, "oz": 1, "ml": 1,
		},
		"food": {
			"ate": 3, "eat": 2.5, "eating": 2, "had": 1,
			"lunch": 1.5, "dinner": 1.5, "breakfast": 1.5, "snack": 1.5,
			"meal": 1.5, "hungry": 1, "calories": 1, "macros": 1,
		},
		"gym": {
			"gym": 3, "workout": 3, "worked": 1.5, "lifted": 2.5, "hit": 1.5,
			"exercise": 2, "cardio": 2, "weights": 2,
			"bench": 2, "squat": 2, "squats": 2, "deadlift": 2,
		},
		"calendar_create": {
			"meeting": 3, "appointment": 3, "schedule": 1.5, "call": 1.5,
			"event": 1.5, "block": 1.5, "with": 0.5,
		},
		"calendar_query": {
			"schedule": 2, "calendar": 2.5, "what": 1, "show": 1.5,
			"check": 1.5, "free": 1.5, "busy": 1.5, "planned": 1.5,
		},
		"todo_create": {
			"todo": 3, "task": 2.5, "add": 1.5, "remember": 2,
			"need": 1.5, "list": 1,
		},
		"todo_complete": {
			"done": 2.5, "finished": 2.5, "completed": 3, "did": 1.5,
			"checked": 1.5, "crossed": 1.5,
		},
		"reminder": {
			"remind": 3, "reminder": 3, "forget": 2,
		},
		"organize_upload": {
			"save": 2, "upload": 2.5, "organize": 2.5, "photo": 2,
			"picture": 2, "image": 2, "receipt": 2, "document": 1.5,
			"folder": 2, "file": 1.5,
		},
	}
	for intent, words := range triggers {
		for word, weight := range words {
			b.AddTrigger(intent, word, weight)
		}
	}

	return b.Snapshot()
}
