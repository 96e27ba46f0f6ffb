package stablets

const alignScript = `
import json
import sys


def progress(marker):
    print("lyricalign:progress " + marker, file=sys.stderr, flush=True)


def as_float(value):
    if value is None:
        return None
    return float(value)


def main():
    if len(sys.argv) < 7:
        raise SystemExit("usage: <audio_path> <lyrics_path> <output_json> <model> <language> <device>")
    audio_path, lyrics_path, output_path, model_name, language, device = sys.argv[1:7]

    with open(lyrics_path, "r", encoding="utf-8") as handle:
        text = handle.read()

    progress("loading_model")
    import stable_whisper

    kwargs = {}
    if device and device != "auto":
        kwargs["device"] = device
    model = stable_whisper.load_model(model_name, **kwargs)
    progress("model_loaded")

    progress("aligning")
    result = model.align(audio_path, text, language=language)
    progress("alignment_complete")

    segments = []
    for segment in result.segments:
        words = []
        for word in segment.words or []:
            words.append({
                "word": word.word,
                "start": as_float(word.start),
                "end": as_float(word.end),
                "probability": as_float(getattr(word, "probability", None)),
            })
        segments.append({
            "text": segment.text,
            "start": as_float(segment.start),
            "end": as_float(segment.end),
            "words": words,
        })

    with open(output_path, "w", encoding="utf-8") as handle:
        json.dump({"language": language, "segments": segments}, handle, ensure_ascii=False)


if __name__ == "__main__":
    main()
`
